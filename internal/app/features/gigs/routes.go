// internal/app/features/gigs/routes.go
package gigs

import (
	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the gig endpoints. Browsing is public; posting and
// managing gigs needs an org token, and ownership is checked per gig.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/gigs", h.ServeList)
	r.Get("/gigs/{id}", h.ServeGig)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.UserTypeOrg))
		pr.Post("/gigs", h.HandleCreate)
		pr.Get("/my_gigs", h.ServeMine)
		pr.Patch("/gigs/{id}", h.HandleUpdate)
		pr.Delete("/gigs/{id}", h.HandleDelete)
	})
}
