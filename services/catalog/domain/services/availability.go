// Package services contains pure catalog rules.
package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/services/catalog/domain/models"
)

// Availability returns how many units of p the stock snapshot can produce:
// the minimum over recipe lines of floor(stock / quantity per unit). An empty
// recipe or a material missing from stock yields 0.
func Availability(p *models.Product, stock map[uuid.UUID]decimal.Decimal) int64 {
	if len(p.Recipe) == 0 {
		return 0
	}
	var (
		min   int64
		first = true
	)
	for _, item := range p.Recipe {
		qty, ok := stock[item.MaterialID]
		if !ok || !item.Quantity.IsPositive() || !qty.IsPositive() {
			return 0
		}
		units, _ := qty.QuoRem(item.Quantity, 0)
		n := units.IntPart()
		if first || n < min {
			min = n
			first = false
		}
	}
	return min
}
