package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSnapshot is the catalog view an order is validated against.
type ProductSnapshot struct {
	ID       uuid.UUID
	Name     string
	Price    decimal.Decimal
	IsActive bool
	Recipe   []RecipeLine
}

type RecipeLine struct {
	MaterialID      uuid.UUID
	QuantityPerUnit decimal.Decimal
}

// MaterialSnapshot is the stock of one material read before reservation.
type MaterialSnapshot struct {
	ID       uuid.UUID
	Name     string
	StockQty decimal.Decimal
}

// Requirement is the aggregate amount of one material an order consumes.
type Requirement struct {
	MaterialID uuid.UUID
	Name       string
	Required   decimal.Decimal
	Available  decimal.Decimal
}
