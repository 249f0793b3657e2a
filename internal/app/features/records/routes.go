package records

import (
	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers /records/{kind}. Reads are public; inserts need an
// admin token.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/records/{kind}", h.ServeList)

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.UserTypeAdmin))
		pr.Post("/records/{kind}", h.HandleCreate)
	})
}
