package services

import (
	"context"
	"errors"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

func TestAccountServiceCreateAccount(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := NewAccountService(store, pub)
	ctx := context.Background()

	acct, err := svc.CreateAccount(ctx, "user-1", "Everyday", "checking", "1000.00", false)
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if acct.Balance.Cents != 100000 {
		t.Errorf("balance = %d cents, want 100000", acct.Balance.Cents)
	}
	if !acct.IsDefault {
		t.Error("first account should be default")
	}

	msgs := pub.published()
	if len(msgs) != 1 || msgs[0].Reason != amqp.ReasonAccountCreated {
		t.Errorf("expected one account_created message, got %+v", msgs)
	}
}

func TestAccountServiceCreateAccountValidation(t *testing.T) {
	svc := NewAccountService(newMemStore(), nil)
	ctx := context.Background()

	cases := []struct {
		name    string
		owner   string
		typ     string
		balance string
		want    error
	}{
		{"missing owner", "", "checking", "1", core.ErrUnauthorized},
		{"bad type", "u", "credit", "1", core.ErrInvalidAccountType},
		{"bad balance", "u", "checking", "abc", core.ErrInvalidAmount},
		{"negative balance", "u", "checking", "-5", core.ErrInvalidAmount},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAccount(ctx, tc.owner, "n", tc.typ, tc.balance, false)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAccountServiceCreateSurvivesBrokerOutage(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{fail: true}
	svc := NewAccountService(store, pub)

	// The account is committed before publishing; a dead broker must not
	// turn the create into an error.
	acct, err := svc.CreateAccount(context.Background(), "user-1", "A", "savings", "0", false)
	if err != nil {
		t.Fatalf("CreateAccount should succeed despite publish failure: %v", err)
	}
	if acct.ID == "" {
		t.Error("expected created account")
	}
}

func TestAccountServiceSetDefault(t *testing.T) {
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := NewAccountService(store, pub)
	ctx := context.Background()

	a, _ := svc.CreateAccount(ctx, "user-1", "A", "checking", "0", false)
	b, _ := svc.CreateAccount(ctx, "user-1", "B", "savings", "0", true)

	got, err := svc.SetDefault(ctx, "user-1", a.ID)
	if err != nil {
		t.Fatalf("SetDefault failed: %v", err)
	}
	if !got.IsDefault {
		t.Error("target should be default")
	}

	bAfter, _ := store.GetAccount(ctx, "user-1", b.ID)
	if bAfter.IsDefault {
		t.Error("previous default should be demoted")
	}

	msgs := pub.published()
	if len(msgs) != 3 || msgs[2].Reason != amqp.ReasonDefaultChanged {
		t.Errorf("expected default_changed as last message, got %+v", msgs)
	}
}

func TestAccountServiceSetDefaultNotFound(t *testing.T) {
	svc := NewAccountService(newMemStore(), nil)
	if _, err := svc.SetDefault(context.Background(), "user-1", "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
