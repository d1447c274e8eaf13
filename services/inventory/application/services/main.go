package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ghuser/possystem/pkg/app"
	catalogrepos "github.com/ghuser/possystem/services/catalog/domain/repositories"
	catalogpostgres "github.com/ghuser/possystem/services/catalog/infrastructure/persistence/postgres"
	"github.com/ghuser/possystem/services/inventory/application/workflows"
	invdomain "github.com/ghuser/possystem/services/inventory/domain"
	"github.com/ghuser/possystem/services/inventory/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Material       *MaterialService
	Reconciliation *ReconciliationService
}

// New wires inventory services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	materials := postgres.NewRawMaterialRepository(a.Db, a.EventBus)
	products := catalogpostgres.NewProductRepository(a.Db)

	var starter RestoreStarter
	if a.TemporalClient != nil {
		starter = a.TemporalClient
	}

	return &Services{
		Material: NewMaterialService(materials, productUsage{products: products}),
		Reconciliation: NewReconciliationService(
			postgres.NewReconciliationRepository(a.Db),
			materials,
			starter,
			workflows.StockRestoreWorkflow,
			a.Logger,
		),
	}
}

// productUsage adapts the catalog repository to the ProductUsage port.
type productUsage struct {
	products catalogrepos.ProductRepository
}

func (u productUsage) ActiveProductsUsing(ctx context.Context, materialID uuid.UUID) ([]invdomain.DependentProduct, error) {
	products, err := u.products.FindActiveByMaterial(ctx, materialID)
	if err != nil {
		return nil, fmt.Errorf("find products by material: %w", err)
	}
	out := make([]invdomain.DependentProduct, len(products))
	for i, p := range products {
		out[i] = invdomain.DependentProduct{ID: p.ID, Name: p.Name}
	}
	return out, nil
}
