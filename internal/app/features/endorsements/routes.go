// internal/app/features/endorsements/routes.go
package endorsements

import (
	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the endorsement endpoints. Role and ownership
// checks happen in the handlers so that their ordering is preserved.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/endorsements/{id}", h.ServeList) // {id} is the endorsed user

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Post("/endorse", h.HandleEndorse)
		pr.Delete("/endorsements/{id}", h.HandleDelete)
	})
}
