package services

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/core"
)

// BudgetService reads and replaces the single monthly budget an owner keeps.
type BudgetService struct {
	store BudgetStore
}

func NewBudgetService(store BudgetStore) *BudgetService {
	return &BudgetService{store: store}
}

// Get returns the owner's budget, zero when none was ever set.
func (s *BudgetService) Get(ctx context.Context, ownerID string) (core.Money, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.Money{}, core.ErrUnauthorized
	}
	return s.store.GetBudget(ctx, ownerID)
}

// Set parses and stores the owner's budget, replacing any previous value.
func (s *BudgetService) Set(ctx context.Context, ownerID, amount string) (core.Money, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.Money{}, core.ErrUnauthorized
	}

	m, err := core.ParseAmount(amount)
	if err != nil {
		return core.Money{}, err
	}

	if err := s.store.SetBudget(ctx, ownerID, m); err != nil {
		return core.Money{}, fmt.Errorf("set budget: %w", err)
	}
	return m, nil
}
