package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"fintrack/internal/advice"
	"fintrack/internal/cache"
	"fintrack/internal/core"
)

// FallbackAdvice is returned whenever the text-generation collaborator
// fails. Advice is non-essential, so degradation here is deliberate and
// never surfaces as an error to the caller.
const FallbackAdvice = "Unable to generate AI insights at this time. Please try again later."

// currencySymbol is fixed in the prompt template so the generated text uses
// one consistent currency.
const currencySymbol = "₹"

// InsightService assembles financial snapshots and turns them into advice
// via the external generator. Generated advice is cached per account and
// month; concurrent requests for the same key share one generation.
type InsightService struct {
	accounts  AccountStore
	ledger    TransactionStore
	budgets   BudgetSource
	generator advice.Generator

	cache *cache.LRUCache[string]
	group singleflight.Group
	now   func() time.Time
}

func NewInsightService(accounts AccountStore, ledger TransactionStore, budgets BudgetSource, generator advice.Generator, adviceCache *cache.LRUCache[string]) *InsightService {
	return &InsightService{
		accounts:  accounts,
		ledger:    ledger,
		budgets:   budgets,
		generator: generator,
		cache:     adviceCache,
		now:       time.Now,
	}
}

// BuildSnapshot aggregates the account's current-month income and expense
// together with the owner's budget. Returns core.ErrNotFound when accountID
// does not belong to ownerID.
func (s *InsightService) BuildSnapshot(ctx context.Context, ownerID, accountID string) (core.Snapshot, error) {
	if strings.TrimSpace(ownerID) == "" {
		return core.Snapshot{}, core.ErrUnauthorized
	}

	acct, err := s.accounts.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return core.Snapshot{}, err
	}

	window := core.MonthWindow(s.now())

	expense, err := s.ledger.SumByKind(ctx, ownerID, acct.ID, core.Expense, window)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("sum expenses: %w", err)
	}

	income, err := s.ledger.SumByKind(ctx, ownerID, acct.ID, core.Income, window)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("sum income: %w", err)
	}

	budget, err := s.budgets.GetBudget(ctx, ownerID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("get budget: %w", err)
	}

	return core.Snapshot{
		AccountID: acct.ID,
		Window:    window,
		Budget:    budget,
		Expense:   expense,
		Income:    income,
	}, nil
}

// AdvicePrompt renders the snapshot into the fixed prompt template. The
// output is deterministic for a given snapshot: same values, same text.
func AdvicePrompt(snap core.Snapshot) string {
	return fmt.Sprintf(`Provide financial advice based on the following data:
Budget: %[1]s%[2]s
Expenses this month: %[1]s%[3]s
Income this month: %[1]s%[4]s
Please provide 4 to 5 concise points, each point 1 to 2 short sentences, with actionable insights to help manage finances better. Use %[1]s symbol for all currency references.`,
		currencySymbol, snap.Budget, snap.Expense, snap.Income)
}

// Generate returns advice text for the account. An empty accountID selects
// the owner's default account. Snapshot errors (unknown account, storage
// failure) propagate; generator failures degrade to FallbackAdvice.
func (s *InsightService) Generate(ctx context.Context, ownerID, accountID string) (string, error) {
	if strings.TrimSpace(ownerID) == "" {
		return "", core.ErrUnauthorized
	}

	if accountID == "" {
		acct, err := s.accounts.GetDefaultAccount(ctx, ownerID)
		if err != nil {
			return "", err
		}
		accountID = acct.ID
	}

	window := core.MonthWindow(s.now())
	key := cacheKey(ownerID, accountID, window)

	if s.cache != nil {
		if text, ok := s.cache.Get(key); ok {
			return text, nil
		}
	}

	text, err, _ := s.group.Do(key, func() (any, error) {
		snap, err := s.BuildSnapshot(ctx, ownerID, accountID)
		if err != nil {
			return "", err
		}

		generated, err := s.generator.Generate(ctx, AdvicePrompt(snap))
		if err != nil {
			slog.WarnContext(ctx, "Advice generation failed, serving fallback",
				"owner_id", ownerID,
				"account_id", accountID,
				"error", err)
			// Fallback is not cached so the next request retries.
			return FallbackAdvice, nil
		}

		if s.cache != nil {
			s.cache.Set(key, generated)
		}
		return generated, nil
	})
	if err != nil {
		return "", err
	}

	return text.(string), nil
}

// InvalidateOwner drops every cached insight for the owner. Called when a
// data-changed notification arrives.
func (s *InsightService) InvalidateOwner(ownerID string) int {
	if s.cache == nil {
		return 0
	}
	return s.cache.DeletePrefix(ownerID + "|")
}

func cacheKey(ownerID, accountID string, w core.Window) string {
	return fmt.Sprintf("%s|%s|%s", ownerID, accountID, w.Start.Format("2006-01"))
}
