// Package worker reacts to data-changed notifications from the broker.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
)

// SnapshotBuilder recomputes the current-month aggregates for an account.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context, ownerID, accountID string) (core.Snapshot, error)
}

// Invalidator drops cached insights for an owner; returns how many entries
// were removed.
type Invalidator interface {
	InvalidateOwner(ownerID string) int
}

// RefreshWorker consumes data-changed messages, drops stale cached insights
// and warms the fresh snapshot for the changed account.
type RefreshWorker struct {
	insights    SnapshotBuilder
	invalidator Invalidator
}

func NewRefreshWorker(insights SnapshotBuilder, invalidator Invalidator) *RefreshWorker {
	return &RefreshWorker{
		insights:    insights,
		invalidator: invalidator,
	}
}

// HandleDataChanged processes one notification. The account may have been
// deleted or the message may predate the data; a missing account is not a
// processing failure.
func (w *RefreshWorker) HandleDataChanged(ctx context.Context, msg *amqp.DataChangedMessage) error {
	slog.InfoContext(ctx, "Processing data changed message",
		"owner_id", msg.OwnerID,
		"account_id", msg.AccountID,
		"reason", msg.Reason)

	if msg.OwnerID == "" {
		return errors.New("data changed message without owner")
	}

	if w.invalidator != nil {
		dropped := w.invalidator.InvalidateOwner(msg.OwnerID)
		if dropped > 0 {
			slog.InfoContext(ctx, "Dropped cached insights",
				"owner_id", msg.OwnerID,
				"entries", dropped)
		}
	}

	if msg.AccountID == "" {
		return nil
	}

	snap, err := w.insights.BuildSnapshot(ctx, msg.OwnerID, msg.AccountID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			slog.WarnContext(ctx, "Account gone, skipping snapshot refresh",
				"owner_id", msg.OwnerID,
				"account_id", msg.AccountID)
			return nil
		}
		return fmt.Errorf("rebuild snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot refreshed",
		"owner_id", msg.OwnerID,
		"account_id", snap.AccountID,
		"month", snap.Window.Start.Format("2006-01"),
		"expense", snap.Expense.String(),
		"income", snap.Income.String(),
		"budget", snap.Budget.String())

	return nil
}
