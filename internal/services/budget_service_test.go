package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/core"
)

func TestBudgetServiceSetAndGet(t *testing.T) {
	svc := NewBudgetService(newMemStore())
	ctx := context.Background()

	got, err := svc.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !got.IsZero() {
		t.Errorf("unset budget = %s, want 0.00", got)
	}

	set, err := svc.Set(ctx, "user-1", "5000")
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if set.Cents != 500000 {
		t.Errorf("set budget = %d cents, want 500000", set.Cents)
	}

	// Second Set replaces, never accumulates.
	if _, err := svc.Set(ctx, "user-1", "100.50"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, _ = svc.Get(ctx, "user-1")
	if got.String() != "100.50" {
		t.Errorf("budget after replace = %s, want 100.50", got)
	}
}

func TestBudgetServiceValidation(t *testing.T) {
	svc := NewBudgetService(newMemStore())
	ctx := context.Background()

	if _, err := svc.Get(ctx, ""); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Set(ctx, "", "1"); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := svc.Set(ctx, "user-1", "nope"); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
	if _, err := svc.Set(ctx, "user-1", "-1"); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount, got %v", err)
	}
}
