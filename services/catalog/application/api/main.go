package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/possystem/pkg/app"
	"github.com/ghuser/possystem/services/catalog/application/handlers"
	appsvcs "github.com/ghuser/possystem/services/catalog/application/services"
)

// CatalogRoutes registers product and category endpoints.
func CatalogRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a))
}

func Mount(r chi.Router, svcs *appsvcs.Services) {
	products := handlers.NewProductHandler(svcs)
	categories := handlers.NewCategoryHandler(svcs)

	r.Route("/products", func(r chi.Router) {
		r.Post("/", products.Create)
		r.Get("/", products.List)
		r.Get("/by-material/{materialId}", products.ByMaterial)
		r.Patch("/deactivate-by-material/{materialId}", products.DeactivateByMaterial)
		r.Get("/{id}", products.Get)
		r.Patch("/{id}", products.Update)
		r.Delete("/{id}", products.Delete)
	})
	r.Route("/categories", func(r chi.Router) {
		r.Post("/", categories.Create)
		r.Get("/", categories.List)
		r.Get("/{id}", categories.Get)
		r.Patch("/{id}", categories.Update)
		r.Delete("/{id}", categories.Delete)
	})
}
