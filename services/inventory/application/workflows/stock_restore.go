// Package workflows holds the Temporal workflow that replays stock which an
// order attempt decremented but failed to compensate.
package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// AttemptRestorer replays the open reconciliation entries of one attempt.
type AttemptRestorer interface {
	ApplyAttempt(ctx context.Context, attemptID uuid.UUID) (int, error)
}

// RestoreActivities are registered on the worker with a live restorer.
type RestoreActivities struct {
	Restorer AttemptRestorer
}

// RestoreAttempt applies the attempt's journal entries and returns how many
// were resolved. Safe to retry: each entry increments at most once.
func (a *RestoreActivities) RestoreAttempt(ctx context.Context, attemptID string) (int, error) {
	id, err := uuid.Parse(attemptID)
	if err != nil {
		return 0, temporal.NewNonRetryableApplicationError("invalid attempt id", "InvalidAttemptID", err)
	}
	n, err := a.Restorer.ApplyAttempt(ctx, id)
	if err != nil {
		return n, fmt.Errorf("restore attempt %s: %w", attemptID, err)
	}
	return n, nil
}

// StockRestoreWorkflow retries RestoreAttempt with backoff until the store
// accepts the increments.
func StockRestoreWorkflow(ctx workflow.Context, attemptID string) (int, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    5 * time.Minute,
		},
	})

	var a *RestoreActivities
	var restored int
	if err := workflow.ExecuteActivity(ctx, a.RestoreAttempt, attemptID).Get(ctx, &restored); err != nil {
		return 0, err
	}
	workflow.GetLogger(ctx).Info("stock restored", "attempt_id", attemptID, "entries", restored)
	return restored, nil
}
