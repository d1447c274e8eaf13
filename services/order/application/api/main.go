package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/possystem/pkg/app"
	invservices "github.com/ghuser/possystem/services/inventory/application/services"
	"github.com/ghuser/possystem/services/order/application/handlers"
	appsvcs "github.com/ghuser/possystem/services/order/application/services"
)

// OrderRoutes registers order endpoints. Routes must be mounted behind
// auth.RequireAuth; placement reads the operator from the request context.
func OrderRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a, invservices.New(a)))
}

func Mount(r chi.Router, svcs *appsvcs.Services) {
	orders := handlers.NewOrderHandler(svcs)
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orders.Place)
		r.Get("/", orders.List)
		r.Get("/{id}", orders.Get)
	})
}
