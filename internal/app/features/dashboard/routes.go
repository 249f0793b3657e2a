// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes wires the admin dashboard under whatever mount point the
// top-level router chooses (e.g., "/admin").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireRole(models.UserTypeAdmin))
		// Final path will be /admin/stats when mounted at "/admin".
		pr.Get("/stats", h.ServeStats)
	})

	return r
}
