package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxMaterialNameLength = 25

// MaxStockQty bounds stock and alert quantities accepted from operators.
var MaxStockQty = decimal.NewFromInt(9999999)

// RawMaterial is an ingredient or supply consumed by product recipes.
// StockQty is never negative.
type RawMaterial struct {
	ID          uuid.UUID
	Name        string
	Unit        Unit
	StockQty    decimal.Decimal
	MinAlertQty decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewRawMaterial constructs a validated RawMaterial with a generated id.
func NewRawMaterial(name string, unit Unit, stockQty, minAlertQty decimal.Decimal) (*RawMaterial, error) {
	now := time.Now().UTC()
	m := &RawMaterial{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Unit:        unit,
		StockQty:    stockQty,
		MinAlertQty: minAlertQty,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks name, unit and quantity bounds.
func (m *RawMaterial) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(m.Name) > maxMaterialNameLength {
		return fmt.Errorf("name must not exceed %d characters", maxMaterialNameLength)
	}
	if _, err := ParseUnit(string(m.Unit)); err != nil {
		return err
	}
	if m.StockQty.IsNegative() || m.StockQty.GreaterThan(MaxStockQty) {
		return fmt.Errorf("stock quantity must be between 0 and %s", MaxStockQty)
	}
	if m.MinAlertQty.IsNegative() || m.MinAlertQty.GreaterThan(MaxStockQty) {
		return fmt.Errorf("min alert quantity must be between 0 and %s", MaxStockQty)
	}
	return nil
}

// IsLowStock reports whether stock has fallen to or below the alert threshold.
func (m *RawMaterial) IsLowStock() bool {
	return m.StockQty.LessThanOrEqual(m.MinAlertQty)
}
