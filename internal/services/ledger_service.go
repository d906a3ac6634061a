package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// LedgerService records and lists immutable income/expense entries.
type LedgerService struct {
	store     TransactionStore
	publisher ChangePublisher
}

func NewLedgerService(store TransactionStore, publisher ChangePublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		publisher: publisher,
	}
}

// Record appends one ledger entry. The store rejects accounts the owner
// does not hold with core.ErrNotFound.
func (s *LedgerService) Record(ctx context.Context, ownerID, accountID, kind, amount string, occurredOn time.Time) (core.Transaction, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.Transaction{}, core.ErrUnauthorized
	}

	k, err := core.ParseTransactionKind(kind)
	if err != nil {
		return core.Transaction{}, err
	}

	m, err := core.ParseAmount(amount)
	if err != nil {
		return core.Transaction{}, err
	}

	t, err := s.store.InsertTransaction(ctx, core.Transaction{
		OwnerID:    ownerID,
		AccountID:  accountID,
		Kind:       k,
		Amount:     m,
		OccurredOn: occurredOn,
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("record transaction: %w", err)
	}

	if s.publisher != nil {
		msg := amqp.NewDataChangedMessage(ownerID, accountID, amqp.ReasonTransactionRecorded)
		if err := s.publisher.PublishDataChanged(ctx, msg); err != nil {
			slog.ErrorContext(ctx, "Failed to publish data changed message",
				"owner_id", ownerID,
				"account_id", accountID,
				"error", err)
		}
	}

	return t, nil
}

// List returns a page of the owner's ledger, newest occurrence first.
func (s *LedgerService) List(ctx context.Context, ownerID string, limit, offset int) ([]core.Transaction, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, core.ErrUnauthorized
	}
	return s.store.ListTransactions(ctx, ownerID, limit, offset)
}
