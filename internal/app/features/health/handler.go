// Package health reports whether the backing stores are reachable.
package health

import (
	"context"
	"net/http"

	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/statscache"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type Handler struct {
	Client *mongo.Client
	Cache  *statscache.Cache
	Log    *zap.Logger
}

// NewHandler builds the health check. cache may be nil when Redis is off.
func NewHandler(client *mongo.Client, cache *statscache.Cache, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Cache: cache, Log: logger}
}

type report struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Serve answers 200 while MongoDB answers a ping and 503 otherwise.
// Redis is reported as "disabled", "connected" or "unavailable" but never
// fails the check since the stats endpoint can fall back to MongoDB.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Error("health: mongo ping failed", zap.Error(err))
		apperr.JSON(w, http.StatusServiceUnavailable, report{
			Status:   "error",
			Database: "disconnected",
			Cache:    h.cacheState(ctx),
			Message:  "Database unavailable",
			Error:    err.Error(),
		})
		return
	}

	apperr.JSON(w, http.StatusOK, report{
		Status:   "ok",
		Database: "connected",
		Cache:    h.cacheState(ctx),
	})
}

func (h *Handler) cacheState(ctx context.Context) string {
	if !h.Cache.Enabled() {
		return "disabled"
	}
	if err := h.Cache.Ping(ctx); err != nil {
		h.Log.Warn("health: redis ping failed", zap.Error(err))
		return "unavailable"
	}
	return "connected"
}
