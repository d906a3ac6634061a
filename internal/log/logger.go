// Package log builds the process-wide slog logger. Each binary tags its
// logger with a component attribute so API and worker lines stay apart in
// aggregated output.
package log

import (
	"log/slog"
	"os"
)

// Logger is a slog.Logger that always carries its component attribute.
type Logger struct {
	*slog.Logger
	component string
}

// Config for New. Handler is optional; when nil a text handler on stdout
// at the configured level is used.
type Config struct {
	Level     slog.Level
	Component string
	Handler   slog.Handler
}

// New builds a logger with the component attribute baked in, so every
// record carries it without per-call bookkeeping.
func New(cfg Config) *Logger {
	handler := cfg.Handler
	if handler == nil {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})
	}

	return &Logger{
		Logger:    slog.New(handler).With("component", cfg.Component),
		component: cfg.Component,
	}
}

// With returns a logger that adds args to every record, keeping the
// component.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		component: l.component,
	}
}

// Component returns the component name the logger was built with.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs the logger as the slog default so package-level slog
// calls throughout the process inherit the handler and component.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
