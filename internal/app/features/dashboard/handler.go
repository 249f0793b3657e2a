// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	statsstore "github.com/dalemusser/skilllink/internal/app/store/stats"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/statscache"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// StatsKey is the cache key for the admin counts.
const StatsKey = statscache.AdminStatsKey

// Handler serves the admin statistics dashboard.
type Handler struct {
	DB    *mongo.Database
	Cache *statscache.Cache
	Log   *zap.Logger
}

// NewHandler builds a Handler. cache may be nil, in which case every
// request counts from the database.
func NewHandler(db *mongo.Database, cache *statscache.Cache, logger *zap.Logger) *Handler {
	return &Handler{
		DB:    db,
		Cache: cache,
		Log:   logger,
	}
}

// ServeStats handles GET /admin/stats.
func (h *Handler) ServeStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin stats")
	defer cancel()

	var counts statsstore.Counts
	if h.Cache.Get(ctx, StatsKey, &counts) {
		apperr.JSON(w, http.StatusOK, counts)
		return
	}

	counts, err := statsstore.FetchCounts(ctx, h.DB)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if err := h.Cache.Set(ctx, StatsKey, counts); err != nil {
		h.Log.Warn("admin stats not cached", zap.Error(err))
	}

	h.Log.Debug("admin stats served", zap.Int64("users_total", counts.UsersTotal))
	apperr.JSON(w, http.StatusOK, counts)
}
