// Package services holds the pure order placement rules.
package services

import (
	"bytes"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	orderdomain "github.com/ghuser/possystem/services/order/domain"
	"github.com/ghuser/possystem/services/order/domain/models"
)

// ResolveLines checks that every requested product exists, is active and
// has a recipe. The first offending line in request order is reported. A
// product without a recipe has availability 0, so any quantity is a shortage.
func ResolveLines(lines []models.PlaceOrderLine, products map[uuid.UUID]*models.ProductSnapshot) error {
	for _, line := range lines {
		p, ok := products[line.ProductID]
		if !ok {
			return &orderdomain.ProductNotFoundError{ProductID: line.ProductID}
		}
		if !p.IsActive {
			return &orderdomain.ProductInactiveError{ProductID: p.ID, Name: p.Name}
		}
		if len(p.Recipe) == 0 {
			return &orderdomain.InsufficientStockError{
				ProductID: p.ID,
				Name:      p.Name,
				Required:  decimal.NewFromInt(int64(line.Quantity)),
				Available: decimal.Zero,
			}
		}
	}
	return nil
}

// AggregateRequirements sums quantityPerUnit × quantity per distinct material
// across all lines, so materials shared by several lines are checked once.
func AggregateRequirements(lines []models.PlaceOrderLine, products map[uuid.UUID]*models.ProductSnapshot) map[uuid.UUID]decimal.Decimal {
	required := make(map[uuid.UUID]decimal.Decimal)
	for _, line := range lines {
		p := products[line.ProductID]
		if p == nil {
			continue
		}
		qty := decimal.NewFromInt(int64(line.Quantity))
		for _, r := range p.Recipe {
			required[r.MaterialID] = required[r.MaterialID].Add(r.QuantityPerUnit.Mul(qty))
		}
	}
	return required
}

// SortedMaterialIDs returns the keys of required in ascending uuid order,
// the order in which stock is reserved.
func SortedMaterialIDs(required map[uuid.UUID]decimal.Decimal) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}

// CheckStock compares aggregate requirements against a stock snapshot and
// returns them in reservation order. A missing material yields
// MaterialNotFoundError and a shortfall yields InsufficientStockError.
func CheckStock(required map[uuid.UUID]decimal.Decimal, stock map[uuid.UUID]*models.MaterialSnapshot) ([]models.Requirement, error) {
	ids := SortedMaterialIDs(required)
	reqs := make([]models.Requirement, 0, len(ids))
	for _, id := range ids {
		m, ok := stock[id]
		if !ok {
			return nil, &orderdomain.MaterialNotFoundError{MaterialID: id}
		}
		r := models.Requirement{MaterialID: id, Name: m.Name, Required: required[id], Available: m.StockQty}
		if r.Required.GreaterThan(r.Available) {
			return nil, &orderdomain.InsufficientStockError{
				MaterialID: id,
				Name:       m.Name,
				Required:   r.Required,
				Available:  r.Available,
			}
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

// BuildItems snapshots name and price for every requested line. Duplicate
// product lines stay separate.
func BuildItems(lines []models.PlaceOrderLine, products map[uuid.UUID]*models.ProductSnapshot) []models.OrderItem {
	items := make([]models.OrderItem, len(lines))
	for i, line := range lines {
		p := products[line.ProductID]
		items[i] = models.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    line.Quantity,
			PriceAtSale: p.Price,
		}
	}
	return items
}
