// internal/app/features/profile/routes.go
package profile

import (
	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the profile endpoints. /me requires a token; the
// directory lookups are public.
func MountRoutes(r chi.Router, h *Handler) {
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
		pr.Patch("/me", h.HandleUpdateMe)
	})
	r.Get("/users/{id}", h.ServeUser)
	r.Get("/orgs/{id}", h.ServeOrg)
}
