package core

import "time"

// Window is an inclusive calendar date range used to scope aggregation.
// Both bounds are in UTC; the store compares transaction dates against them
// with BETWEEN semantics.
type Window struct {
	Start time.Time
	End   time.Time
}

// MonthWindow returns the calendar month containing ref as a Window.
//
// Boundaries are computed in UTC regardless of the process's local zone, so
// "current month" is identical across deployments. Start is the first day at
// 00:00:00.000, End the last day at 23:59:59.999.
func MonthWindow(ref time.Time) Window {
	ref = ref.UTC()
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Millisecond)
	return Window{Start: start, End: end}
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(w.Start) && !t.After(w.End)
}
