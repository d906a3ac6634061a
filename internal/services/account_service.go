package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// AccountService wraps the account store with input parsing and change
// notification.
type AccountService struct {
	store     AccountStore
	publisher ChangePublisher
}

func NewAccountService(store AccountStore, publisher ChangePublisher) *AccountService {
	return &AccountService{
		store:     store,
		publisher: publisher,
	}
}

// CreateAccount parses and validates the raw request fields and creates the
// account. Whether the account actually becomes default is decided by the
// store (the owner's first account always is).
func (s *AccountService) CreateAccount(ctx context.Context, ownerID, name, accountType, balance string, requestedDefault bool) (core.Account, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.Account{}, core.ErrUnauthorized
	}

	typ, err := core.ParseAccountType(accountType)
	if err != nil {
		return core.Account{}, err
	}

	amount, err := core.ParseAmount(balance)
	if err != nil {
		return core.Account{}, err
	}

	acct, err := s.store.CreateAccount(ctx, core.Account{
		OwnerID: ownerID,
		Name:    strings.TrimSpace(name),
		Type:    typ,
		Balance: amount,
	}, requestedDefault)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	s.publishChange(ctx, ownerID, acct.ID, amqp.ReasonAccountCreated)

	return acct, nil
}

// ListAccounts returns the owner's accounts, newest-created first.
func (s *AccountService) ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, core.ErrUnauthorized
	}
	return s.store.ListAccounts(ctx, ownerID)
}

// SetDefault promotes accountID to the owner's default account.
func (s *AccountService) SetDefault(ctx context.Context, ownerID, accountID string) (core.Account, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.Account{}, core.ErrUnauthorized
	}

	acct, err := s.store.SetDefaultAccount(ctx, ownerID, accountID)
	if err != nil {
		return core.Account{}, err
	}

	s.publishChange(ctx, ownerID, accountID, amqp.ReasonDefaultChanged)

	return acct, nil
}

// publishChange notifies presentation layers. A broker failure is logged and
// swallowed: the write already committed and must not be reported as failed.
func (s *AccountService) publishChange(ctx context.Context, ownerID, accountID, reason string) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewDataChangedMessage(ownerID, accountID, reason)
	if err := s.publisher.PublishDataChanged(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish data changed message",
			"owner_id", ownerID,
			"reason", reason,
			"error", err)
	}
}
