package services

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	orderdomain "github.com/ghuser/possystem/services/order/domain"
	"github.com/ghuser/possystem/services/order/domain/models"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestAggregateRequirementsSharedMaterial(t *testing.T) {
	flour, milk := uuid.New(), uuid.New()
	bread := &models.ProductSnapshot{ID: uuid.New(), Name: "Bread", IsActive: true,
		Recipe: []models.RecipeLine{{MaterialID: flour, QuantityPerUnit: d(20)}}}
	cake := &models.ProductSnapshot{ID: uuid.New(), Name: "Cake", IsActive: true,
		Recipe: []models.RecipeLine{{MaterialID: flour, QuantityPerUnit: d(30)}, {MaterialID: milk, QuantityPerUnit: d(5)}}}
	products := map[uuid.UUID]*models.ProductSnapshot{bread.ID: bread, cake.ID: cake}

	lines := []models.PlaceOrderLine{
		{ProductID: bread.ID, Quantity: 2},
		{ProductID: cake.ID, Quantity: 1},
		{ProductID: bread.ID, Quantity: 1},
	}
	got := AggregateRequirements(lines, products)

	if !got[flour].Equal(d(90)) {
		t.Errorf("flour: expected 90, got %s", got[flour])
	}
	if !got[milk].Equal(d(5)) {
		t.Errorf("milk: expected 5, got %s", got[milk])
	}

	items := BuildItems(lines, products)
	if len(items) != 3 {
		t.Fatalf("expected duplicate lines kept separate, got %d items", len(items))
	}
}

func TestCheckStockAggregateShortfall(t *testing.T) {
	flour := uuid.New()
	required := map[uuid.UUID]decimal.Decimal{flour: d(90)}

	// Each line alone would fit in 60, the aggregate does not.
	stock := map[uuid.UUID]*models.MaterialSnapshot{flour: {ID: flour, Name: "Flour", StockQty: d(60)}}
	_, err := CheckStock(required, stock)

	var short *orderdomain.InsufficientStockError
	if !errors.As(err, &short) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if short.Name != "Flour" || !short.Required.Equal(d(90)) || !short.Available.Equal(d(60)) {
		t.Errorf("unexpected shortfall detail: %+v", short)
	}
}

func TestCheckStockMissingMaterial(t *testing.T) {
	ghost := uuid.New()
	_, err := CheckStock(map[uuid.UUID]decimal.Decimal{ghost: d(1)}, map[uuid.UUID]*models.MaterialSnapshot{})
	if !errors.Is(err, orderdomain.ErrMaterialNotFound) {
		t.Fatalf("expected ErrMaterialNotFound, got %v", err)
	}
}

func TestCheckStockOrdersByMaterialID(t *testing.T) {
	required := map[uuid.UUID]decimal.Decimal{}
	stock := map[uuid.UUID]*models.MaterialSnapshot{}
	for i := 0; i < 8; i++ {
		id := uuid.New()
		required[id] = d(1)
		stock[id] = &models.MaterialSnapshot{ID: id, StockQty: d(1)}
	}
	reqs, err := CheckStock(required, stock)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(reqs); i++ {
		if bytes.Compare(reqs[i-1].MaterialID[:], reqs[i].MaterialID[:]) >= 0 {
			t.Fatal("requirements are not in ascending material order")
		}
	}
}

func TestResolveLines(t *testing.T) {
	recipe := []models.RecipeLine{{MaterialID: uuid.New(), QuantityPerUnit: d(1)}}
	active := &models.ProductSnapshot{ID: uuid.New(), Name: "Bread", IsActive: true, Recipe: recipe}
	inactive := &models.ProductSnapshot{ID: uuid.New(), Name: "Stale", IsActive: false, Recipe: recipe}
	empty := &models.ProductSnapshot{ID: uuid.New(), Name: "Air", IsActive: true}
	products := map[uuid.UUID]*models.ProductSnapshot{active.ID: active, inactive.ID: inactive, empty.ID: empty}
	missing := uuid.New()

	err := ResolveLines([]models.PlaceOrderLine{{ProductID: active.ID, Quantity: 1}, {ProductID: missing, Quantity: 1}}, products)
	var nf *orderdomain.ProductNotFoundError
	if !errors.As(err, &nf) || nf.ProductID != missing {
		t.Fatalf("expected not found for %s, got %v", missing, err)
	}

	err = ResolveLines([]models.PlaceOrderLine{{ProductID: inactive.ID, Quantity: 1}}, products)
	if !errors.Is(err, orderdomain.ErrProductInactive) {
		t.Fatalf("expected ErrProductInactive, got %v", err)
	}

	err = ResolveLines([]models.PlaceOrderLine{{ProductID: empty.ID, Quantity: 1}}, products)
	var short *orderdomain.InsufficientStockError
	if !errors.As(err, &short) || short.ProductID != empty.ID {
		t.Fatalf("expected shortage for recipe-less product, got %v", err)
	}

	if err := ResolveLines([]models.PlaceOrderLine{{ProductID: active.ID, Quantity: 3}}, products); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
