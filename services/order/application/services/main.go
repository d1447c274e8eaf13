package services

import (
	"github.com/ghuser/possystem/pkg/app"
	catalogpostgres "github.com/ghuser/possystem/services/catalog/infrastructure/persistence/postgres"
	invservices "github.com/ghuser/possystem/services/inventory/application/services"
	invpostgres "github.com/ghuser/possystem/services/inventory/infrastructure/persistence/postgres"
	"github.com/ghuser/possystem/services/order/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Placement *PlacementService
	Order     *OrderService
}

// New wires order services with infrastructure from the Application container.
// inventory supplies the reconciliation journal used when compensation fails.
func New(a *app.Application, inventory *invservices.Services) *Services {
	orders := postgres.NewOrderRepository(a.Db, a.EventBus)
	retries := 1
	if a.Config != nil {
		retries = a.Config.OrderConflictRetries
	}

	return &Services{
		Placement: NewPlacementService(
			NewCatalogProducts(catalogpostgres.NewProductRepository(a.Db)),
			NewInventoryStock(invpostgres.NewRawMaterialRepository(a.Db, a.EventBus)),
			orders,
			NewInventoryReconciler(inventory.Reconciliation),
			a.Logger,
			retries,
		),
		Order: NewOrderService(orders),
	}
}
