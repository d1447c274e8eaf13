package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementReason classifies a stock change.
type MovementReason string

const (
	ReasonOrder        MovementReason = "order"
	ReasonCompensation MovementReason = "compensation"
	ReasonAdjustment   MovementReason = "adjustment"
	ReasonSet          MovementReason = "set"
)

// StockMovement is one journaled change of a material's stock. Order and
// compensation movements are unique per (Reference, MaterialID, Reason),
// which makes replays of the same attempt no-ops.
type StockMovement struct {
	ID         uuid.UUID
	MaterialID uuid.UUID
	Delta      decimal.Decimal
	Reason     MovementReason
	Reference  string
	CreatedAt  time.Time
}
