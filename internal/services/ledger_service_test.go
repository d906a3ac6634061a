package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

func TestLedgerServiceRecord(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{}
	accounts := NewAccountService(store, nil)
	ledger := NewLedgerService(store, pub)
	ctx := context.Background()

	acct, _ := accounts.CreateAccount(ctx, "user-1", "A", "checking", "0", false)

	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	tx, err := ledger.Record(ctx, "user-1", acct.ID, "expense", "200.00", day)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if tx.Kind != core.Expense {
		t.Errorf("kind = %q, want EXPENSE", tx.Kind)
	}
	if tx.Amount.Cents != 20000 {
		t.Errorf("amount = %d cents, want 20000", tx.Amount.Cents)
	}

	msgs := pub.published()
	if len(msgs) != 1 || msgs[0].Reason != amqp.ReasonTransactionRecorded {
		t.Errorf("expected transaction_recorded message, got %+v", msgs)
	}
}

func TestLedgerServiceRecordValidation(t *testing.T) {
	store := newMemStore()
	accounts := NewAccountService(store, nil)
	ledger := NewLedgerService(store, nil)
	ctx := context.Background()

	acct, _ := accounts.CreateAccount(ctx, "user-1", "A", "checking", "0", false)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		owner   string
		acctID  string
		kind    string
		amount  string
		want    error
	}{
		{"missing owner", "", acct.ID, "INCOME", "1", core.ErrUnauthorized},
		{"bad kind", "user-1", acct.ID, "TRANSFER", "1", core.ErrInvalidKind},
		{"bad amount", "user-1", acct.ID, "INCOME", "x", core.ErrInvalidAmount},
		{"negative amount", "user-1", acct.ID, "INCOME", "-1", core.ErrInvalidAmount},
		{"foreign account", "user-2", acct.ID, "INCOME", "1", core.ErrNotFound},
		{"unknown account", "user-1", "nope", "INCOME", "1", core.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Record(ctx, tc.owner, tc.acctID, tc.kind, tc.amount, day)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLedgerServiceList(t *testing.T) {
	store := newMemStore()
	accounts := NewAccountService(store, nil)
	ledger := NewLedgerService(store, nil)
	ctx := context.Background()

	acct, _ := accounts.CreateAccount(ctx, "user-1", "A", "checking", "0", false)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	if _, err := ledger.Record(ctx, "user-1", acct.ID, "INCOME", "10", day); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	txs, err := ledger.List(ctx, "user-1", 0, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(txs) != 1 {
		t.Errorf("expected 1 transaction, got %d", len(txs))
	}

	if _, err := ledger.List(ctx, "", 0, 0); !errors.Is(err, core.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
