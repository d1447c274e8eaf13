package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/services/inventory/domain/models"
)

// RawMaterialRepository is the persistence interface for raw materials and
// their stock. All stock changes go through ConditionalDecrement, Increment
// or SetStock so that each one writes exactly one movement.
type RawMaterialRepository interface {
	// Save inserts a new material. Returns ErrMaterialAlreadyExists on a name clash.
	Save(ctx context.Context, m *models.RawMaterial) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.RawMaterial, error)

	// GetByIDs returns the materials that exist among ids, keyed by id.
	// Missing ids are simply absent from the map.
	GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.RawMaterial, error)

	// List returns all materials ordered by name.
	List(ctx context.Context) ([]*models.RawMaterial, error)

	// LowStock returns materials with stock at or below their alert threshold,
	// lowest stock first.
	LowStock(ctx context.Context) ([]*models.RawMaterial, error)

	// Update writes name, unit, alert threshold and updated_at. Stock is never
	// written; m.StockQty is refreshed with the stored value.
	Update(ctx context.Context, m *models.RawMaterial) error

	// SetStock overwrites stock with an absolute value under a row lock and
	// journals the difference as a "set" movement. Returns the stock it replaced.
	SetStock(ctx context.Context, id uuid.UUID, qty decimal.Decimal, reference string) (previous decimal.Decimal, err error)

	Delete(ctx context.Context, id uuid.UUID) error

	// ConditionalDecrement subtracts amount only if the stock covers it, as a
	// single atomic statement. Returns the remaining stock, ErrInsufficientStock
	// or ErrMaterialNotFound. Replaying the same (reference, reason) is a no-op
	// that returns the current stock. An order decrement whose reference was
	// already compensated fails with ErrReservationReleased.
	ConditionalDecrement(ctx context.Context, id uuid.UUID, amount decimal.Decimal, reason models.MovementReason, reference string) (decimal.Decimal, error)

	// Increment adds amount. applied is false when the (reference, reason)
	// pair was already journaled. A compensation only restores stock when an
	// order movement with the same reference exists for the material;
	// otherwise it journals a zero movement that blocks a late decrement.
	Increment(ctx context.Context, id uuid.UUID, amount decimal.Decimal, reason models.MovementReason, reference string) (applied bool, err error)

	// Movements returns the most recent stock movements of a material.
	Movements(ctx context.Context, id uuid.UUID, limit int) ([]*models.StockMovement, error)
}

// ReconciliationRepository journals restores that could not be applied.
type ReconciliationRepository interface {
	// Save inserts entries; an existing (attempt, material) pair is left untouched.
	Save(ctx context.Context, entries []*models.Reconciliation) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reconciliation, error)
	ListOpen(ctx context.Context) ([]*models.Reconciliation, error)
	ListOpenByAttempt(ctx context.Context, attemptID uuid.UUID) ([]*models.Reconciliation, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
}
