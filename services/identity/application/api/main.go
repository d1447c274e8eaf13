package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/ghuser/possystem/pkg/app"
	"github.com/ghuser/possystem/pkg/logger"
	"github.com/ghuser/possystem/services/identity/application/handlers"
	appsvcs "github.com/ghuser/possystem/services/identity/application/services"
)

// AuthRoutes registers /auth. Login is public; logout and me go through
// requireAuth.
func AuthRoutes(r chi.Router, a *app.Application, requireAuth func(http.Handler) http.Handler) {
	Mount(r, appsvcs.New(a), a.SessionStore, a.Logger, requireAuth)
}

func Mount(r chi.Router, svcs *appsvcs.Services, store sessions.Store, log logger.Logger, requireAuth func(http.Handler) http.Handler) {
	h := handlers.NewAuthHandler(svcs, store, log)
	r.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})
	})
}
