package badges

import "github.com/go-chi/chi/v5"

// MountRoutes registers the badge endpoints. Both are public.
func MountRoutes(r chi.Router, h *Handler) {
	r.Post("/mint_soulbound_nft", h.HandleMint)
	r.Get("/nft/{user_id}", h.ServeBadge)
}
