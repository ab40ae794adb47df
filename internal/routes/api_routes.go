package routes

import (
	"smartgrid/wattson/internal/api"

	"github.com/go-chi/chi/v5"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers) {

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/providers", func(p chi.Router) {
			p.Get("/", handlers.ListProviders)
			p.Post("/", handlers.CreateProvider)

			p.Delete("/adapters/cache", handlers.ClearAdapterCache)

			p.Post("/{vendor}/wizard/{step}", handlers.WizardStep)
		})
	})
}
