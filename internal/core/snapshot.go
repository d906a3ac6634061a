package core

// Snapshot is an ephemeral, read-only aggregate of one account's finances
// for a period window. It drives advice generation and is never persisted.
type Snapshot struct {
	AccountID string
	Window    Window
	Budget    Money
	Expense   Money
	Income    Money
}
