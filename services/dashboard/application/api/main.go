package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/possystem/pkg/app"
	"github.com/ghuser/possystem/services/dashboard/application/handlers"
	appsvcs "github.com/ghuser/possystem/services/dashboard/application/services"
)

// DashboardRoutes registers dashboard endpoints on the provided chi router.
func DashboardRoutes(r chi.Router, a *app.Application) {
	svcs := appsvcs.New(a)
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/stats", handlers.NewStatsHandler(svcs).Execute)
	})
}
