package home

import "github.com/go-chi/chi/v5"

// MountRoutes registers the liveness banner on the root path only, so
// unknown paths still reach the router's JSON NotFound.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get("/", h.ServeRoot)
}
