package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogrepos "github.com/ghuser/possystem/services/catalog/domain/repositories"
	invservices "github.com/ghuser/possystem/services/inventory/application/services"
	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	invmodels "github.com/ghuser/possystem/services/inventory/domain/models"
	invrepos "github.com/ghuser/possystem/services/inventory/domain/repositories"
	orderdomain "github.com/ghuser/possystem/services/order/domain"
	"github.com/ghuser/possystem/services/order/domain/models"
)

// CatalogProducts resolves order snapshots from the catalog repository.
type CatalogProducts struct {
	products catalogrepos.ProductRepository
}

func NewCatalogProducts(products catalogrepos.ProductRepository) *CatalogProducts {
	return &CatalogProducts{products: products}
}

func (c *CatalogProducts) ResolveProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.ProductSnapshot, error) {
	products, err := c.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*models.ProductSnapshot, len(products))
	for id, p := range products {
		recipe := make([]models.RecipeLine, len(p.Recipe))
		for i, item := range p.Recipe {
			recipe[i] = models.RecipeLine{MaterialID: item.MaterialID, QuantityPerUnit: item.Quantity}
		}
		out[id] = &models.ProductSnapshot{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			IsActive: p.IsActive,
			Recipe:   recipe,
		}
	}
	return out, nil
}

// InventoryStock runs reservations through the inventory movement ledger.
// Reservations are journaled with reason "order" and releases with reason
// "compensation", both under the attempt id.
type InventoryStock struct {
	materials invrepos.RawMaterialRepository
}

func NewInventoryStock(materials invrepos.RawMaterialRepository) *InventoryStock {
	return &InventoryStock{materials: materials}
}

func (s *InventoryStock) Snapshot(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.MaterialSnapshot, error) {
	materials, err := s.materials.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]*models.MaterialSnapshot, len(materials))
	for id, m := range materials {
		out[id] = &models.MaterialSnapshot{ID: m.ID, Name: m.Name, StockQty: m.StockQty}
	}
	return out, nil
}

func (s *InventoryStock) Reserve(ctx context.Context, materialID uuid.UUID, amount decimal.Decimal, attemptID uuid.UUID) error {
	_, err := s.materials.ConditionalDecrement(ctx, materialID, amount, invmodels.ReasonOrder, attemptID.String())
	var short *invdomain.InsufficientStockError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &short):
		return &orderdomain.InsufficientStockError{
			MaterialID: short.MaterialID,
			Name:       short.Name,
			Required:   short.Required,
			Available:  short.Available,
		}
	case errors.Is(err, invdomain.ErrMaterialNotFound):
		return &orderdomain.MaterialNotFoundError{MaterialID: materialID}
	default:
		return err
	}
}

func (s *InventoryStock) Release(ctx context.Context, materialID uuid.UUID, amount decimal.Decimal, attemptID uuid.UUID) error {
	if _, err := s.materials.Increment(ctx, materialID, amount, invmodels.ReasonCompensation, attemptID.String()); err != nil {
		return fmt.Errorf("increment: %w", err)
	}
	return nil
}

// InventoryReconciler forwards unrestored stock to the inventory journal.
type InventoryReconciler struct {
	svc *invservices.ReconciliationService
}

func NewInventoryReconciler(svc *invservices.ReconciliationService) *InventoryReconciler {
	return &InventoryReconciler{svc: svc}
}

func (r *InventoryReconciler) Report(ctx context.Context, attemptID uuid.UUID, unrestored []Unrestored, cause error) error {
	shortfalls := make([]invservices.Shortfall, len(unrestored))
	for i, u := range unrestored {
		shortfalls[i] = invservices.Shortfall{MaterialID: u.MaterialID, Amount: u.Amount}
	}
	return r.svc.Report(ctx, attemptID, shortfalls, cause)
}
