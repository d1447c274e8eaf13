package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/possystem/pkg/app"
	"github.com/ghuser/possystem/services/catalog/infrastructure/persistence/postgres"
	invrepos "github.com/ghuser/possystem/services/inventory/domain/repositories"
	invpostgres "github.com/ghuser/possystem/services/inventory/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Product  *ProductService
	Category *CategoryService
}

// New wires catalog services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	stock := NewInventoryStockReader(invpostgres.NewRawMaterialRepository(a.Db, a.EventBus))

	var images ImageStore
	if a.ObjectStore != nil {
		images = a.ObjectStore
	}

	return &Services{
		Product:  NewProductService(postgres.NewProductRepository(a.Db), stock, images),
		Category: NewCategoryService(postgres.NewCategoryRepository(a.Db)),
	}
}

// InventoryStockReader adapts the inventory repository to StockReader.
type InventoryStockReader struct {
	materials invrepos.RawMaterialRepository
}

func NewInventoryStockReader(materials invrepos.RawMaterialRepository) *InventoryStockReader {
	return &InventoryStockReader{materials: materials}
}

func (r *InventoryStockReader) Stocks(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	materials, err := r.materials.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("read materials: %w", err)
	}
	out := make(map[uuid.UUID]decimal.Decimal, len(materials))
	for id, m := range materials {
		out[id] = m.StockQty
	}
	return out, nil
}
