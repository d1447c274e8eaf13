package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReconciliationStatus tracks whether a journaled restore has been applied.
type ReconciliationStatus string

const (
	ReconciliationOpen     ReconciliationStatus = "open"
	ReconciliationResolved ReconciliationStatus = "resolved"
)

// Reconciliation records stock that an order attempt decremented but could
// not give back. Applying it increments the material by Amount once.
type Reconciliation struct {
	ID         uuid.UUID
	AttemptID  uuid.UUID
	MaterialID uuid.UUID
	Amount     decimal.Decimal
	Cause      string
	Status     ReconciliationStatus
	CreatedAt  time.Time
	ResolvedAt *time.Time
}

// NewReconciliation returns an open entry for one material of an attempt.
func NewReconciliation(attemptID, materialID uuid.UUID, amount decimal.Decimal, cause string) *Reconciliation {
	return &Reconciliation{
		ID:         uuid.New(),
		AttemptID:  attemptID,
		MaterialID: materialID,
		Amount:     amount,
		Cause:      cause,
		Status:     ReconciliationOpen,
		CreatedAt:  time.Now().UTC(),
	}
}
