// internal/app/features/badges/handler.go
package badges

import (
	"errors"
	"net/http"
	"strings"

	badgestore "github.com/dalemusser/skilllink/internal/app/store/badges"
	endorsementstore "github.com/dalemusser/skilllink/internal/app/store/endorsements"
	userstore "github.com/dalemusser/skilllink/internal/app/store/users"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/auditlog"
	"github.com/dalemusser/skilllink/internal/app/system/inputval"
	"github.com/dalemusser/skilllink/internal/app/system/metrics"
	"github.com/dalemusser/skilllink/internal/app/system/statscache"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/dalemusser/skilllink/internal/domain/reputation"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	msgMinted        = "Soulbound NFT minted!"
	msgAlreadyMinted = "NFT already minted."
)

// Handler mints and serves reputation badges.
type Handler struct {
	Badges       *badgestore.Store
	Users        *userstore.Store
	Endorsements *endorsementstore.Store
	AuditLog     *auditlog.Logger
	Metrics      *metrics.Metrics
	Stats        *statscache.Cache
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if m == nil {
		m = metrics.New()
	}
	return &Handler{
		Badges:       badgestore.New(db),
		Users:        userstore.New(db),
		Endorsements: endorsementstore.New(db),
		AuditLog:     audit,
		Metrics:      m,
		Log:          logger,
	}
}

type mintResponse struct {
	Message       string       `json:"message"`
	AlreadyMinted bool         `json:"already_minted"`
	NFT           models.Badge `json:"nft"`
}

// HandleMint handles POST /mint_soulbound_nft?user_id=.
//
// An existing badge is returned unchanged with 200. Otherwise the user's
// endorsements must satisfy reputation.Evaluate; a new badge is answered
// with 201.
func (h *Handler) HandleMint(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(query.Get(r, "user_id"))
	if userID == "" {
		apperr.Write(w, r, h.Log, apperr.BadRequest("user_id is required."))
		return
	}
	uid, err := inputval.ParseObjectID(userID, "user")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "badge mint")
	defer cancel()

	existing, err := h.Badges.GetByUser(ctx, userID)
	switch {
	case err == nil:
		apperr.JSON(w, http.StatusOK, mintResponse{Message: msgAlreadyMinted, AlreadyMinted: true, NFT: existing})
		return
	case !errors.Is(err, badgestore.ErrNotFound):
		apperr.Write(w, r, h.Log, err)
		return
	}

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			err = apperr.Missing("User not found.")
		}
		apperr.Write(w, r, h.Log, err)
		return
	}

	ratings, err := h.Endorsements.RatingsFor(ctx, userID)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	res, err := reputation.Evaluate(ratings)
	switch {
	case errors.Is(err, reputation.ErrNotEnoughEndorsements):
		apperr.Write(w, r, h.Log, apperr.Deny("Not enough endorsements to mint NFT."))
		return
	case errors.Is(err, reputation.ErrRatingTooLow):
		apperr.Write(w, r, h.Log, apperr.Deny("Average rating too low to mint NFT."))
		return
	case err != nil:
		apperr.Write(w, r, h.Log, err)
		return
	}

	b, created, err := h.Badges.Mint(ctx, models.Badge{
		UserID:           userID,
		Name:             u.Username,
		ReputationTier:   res.Tier,
		AverageRating:    res.Average,
		EndorsementCount: res.Count,
	})
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if !created {
		// Lost a concurrent mint; the winner's badge stands.
		apperr.JSON(w, http.StatusOK, mintResponse{Message: msgAlreadyMinted, AlreadyMinted: true, NFT: b})
		return
	}

	h.Metrics.BadgesMinted.WithLabelValues(b.ReputationTier).Inc()
	h.AuditLog.BadgeMinted(ctx, r, uid, b.TokenID, b.ReputationTier)
	h.Log.Info("badge minted",
		zap.String("user_id", userID),
		zap.String("token_id", b.TokenID),
		zap.String("tier", b.ReputationTier),
		zap.Float64("average_rating", b.AverageRating))
	h.Stats.Forget(ctx, statscache.AdminStatsKey)
	apperr.JSON(w, http.StatusCreated, mintResponse{Message: msgMinted, NFT: b})
}

// ServeBadge handles GET /nft/{user_id}.
func (h *Handler) ServeBadge(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "user_id"))

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "badge get")
	defer cancel()

	b, err := h.Badges.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, badgestore.ErrNotFound) {
			err = apperr.Missing("NFT not minted for this user.")
		}
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.JSON(w, http.StatusOK, b)
}
