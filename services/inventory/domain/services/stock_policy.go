// Package services contains stateless stock rules for the inventory bounded context.
package services

import (
	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/services/inventory/domain/models"
)

// ApplyDelta returns the stock after a relative adjustment and whether the
// result is allowed. A negative result is rejected.
func ApplyDelta(current, delta decimal.Decimal) (decimal.Decimal, bool) {
	next := current.Add(delta)
	if next.IsNegative() {
		return current, false
	}
	return next, true
}

// ZeroingWarning reports whether setting m's stock to next should warn the
// operator: the stock drops to zero and active products depend on it.
func ZeroingWarning(m *models.RawMaterial, next decimal.Decimal, dependents int) bool {
	return next.IsZero() && !m.StockQty.IsZero() && dependents > 0
}
