// Package services orchestrates the account store, transaction ledger and
// insight generation on top of the storage and messaging adapters.
package services

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// Ports for the storage and messaging adapters the services depend on.
type (
	// AccountStore owns account rows and the single-default invariant.
	AccountStore interface {
		CreateAccount(ctx context.Context, acct core.Account, requestedDefault bool) (core.Account, error)
		GetAccount(ctx context.Context, ownerID, accountID string) (core.Account, error)
		GetDefaultAccount(ctx context.Context, ownerID string) (core.Account, error)
		ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error)
		SetDefaultAccount(ctx context.Context, ownerID, accountID string) (core.Account, error)
	}

	// TransactionStore owns the append-only ledger and its aggregates.
	TransactionStore interface {
		InsertTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
		ListTransactions(ctx context.Context, ownerID string, limit, offset int) ([]core.Transaction, error)
		SumByKind(ctx context.Context, ownerID, accountID string, kind core.TransactionKind, w core.Window) (core.Money, error)
	}

	// BudgetSource returns an owner's optional budget; absence is 0.00,
	// not an error.
	BudgetSource interface {
		GetBudget(ctx context.Context, ownerID string) (core.Money, error)
	}

	// BudgetStore additionally allows replacing the owner's budget.
	BudgetStore interface {
		BudgetSource
		SetBudget(ctx context.Context, ownerID string, amount core.Money) error
	}

	// ChangePublisher emits fire-and-forget data-changed notifications.
	ChangePublisher interface {
		PublishDataChanged(ctx context.Context, msg *amqp.DataChangedMessage) error
	}
)
