package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: "api",
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.Info("server started", "port", "8081")

	out := buf.String()
	if !strings.Contains(out, "component=api") {
		t.Errorf("log line missing component attribute: %q", out)
	}
	if !strings.Contains(out, "server started") {
		t.Errorf("log line missing message: %q", out)
	}
	if logger.Component() != "api" {
		t.Errorf("Component() = %q, want api", logger.Component())
	}
}

func TestWithKeepsComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Component: "worker",
		Handler:   slog.NewTextHandler(&buf, nil),
	})

	logger.With("queue", "data_changed").Warn("broker gone")

	out := buf.String()
	if !strings.Contains(out, "component=worker") {
		t.Errorf("derived logger lost component: %q", out)
	}
	if !strings.Contains(out, "queue=data_changed") {
		t.Errorf("derived logger lost bound attribute: %q", out)
	}
}

func TestDefaultLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{
		Level:     slog.LevelInfo,
		Component: "api",
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}),
	})

	logger.Debug("noise")
	if buf.Len() != 0 {
		t.Errorf("debug record should be filtered at info level, got %q", buf.String())
	}
}
