package health

import "github.com/go-chi/chi/v5"

// MountRoutes registers GET /health. It sits outside every auth group.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/health", h.Serve)
}
