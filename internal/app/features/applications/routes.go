// internal/app/features/applications/routes.go
package applications

import (
	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the application endpoints: players apply and track
// their applications, gig owners review them.
func MountRoutes(r chi.Router, h *Handler) {
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.UserTypePlayer))
		pr.Post("/apply", h.HandleApply)
		pr.Get("/my_applications", h.ServeMine)
	})

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.UserTypeOrg))
		pr.Get("/applications/{id}", h.ServeForGig) // {id} is a gig id here
		pr.Patch("/applications/{id}/status", h.HandleStatus)
		pr.Delete("/applications/{id}", h.HandleDelete)
	})
}
