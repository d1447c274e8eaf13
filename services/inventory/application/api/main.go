package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/possystem/pkg/app"
	"github.com/ghuser/possystem/services/inventory/application/handlers"
	appsvcs "github.com/ghuser/possystem/services/inventory/application/services"
)

// InventoryRoutes registers raw material and reconciliation endpoints.
func InventoryRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a))
}

// Mount registers the inventory endpoints backed by svcs.
func Mount(r chi.Router, svcs *appsvcs.Services) {
	materials := handlers.NewRawMaterialHandler(svcs)
	recon := handlers.NewReconciliationHandler(svcs)

	r.Route("/raw-materials", func(r chi.Router) {
		r.Post("/", materials.Create)
		r.Get("/", materials.List)
		r.Get("/low-stock", materials.LowStock)
		r.Get("/{id}", materials.Get)
		r.Patch("/{id}", materials.Update)
		r.Patch("/{id}/stock", materials.AdjustStock)
		r.Get("/{id}/movements", materials.Movements)
		r.Delete("/{id}", materials.Delete)
	})
	r.Route("/reconciliations", func(r chi.Router) {
		r.Get("/", recon.ListOpen)
		r.Post("/{id}/apply", recon.Apply)
	})
}
