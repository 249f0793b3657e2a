// internal/app/features/gigs/handler.go
package gigs

import (
	"context"
	"errors"
	"net/http"
	"time"

	gigstore "github.com/dalemusser/skilllink/internal/app/store/gigs"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/auditlog"
	"github.com/dalemusser/skilllink/internal/app/system/metrics"
	"github.com/dalemusser/skilllink/internal/app/system/statscache"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the gig catalog.
type Handler struct {
	Gigs     *gigstore.Store
	AuditLog *auditlog.Logger
	Metrics  *metrics.Metrics
	Stats    *statscache.Cache
	Log      *zap.Logger

	now func() time.Time
}

func NewHandler(db *mongo.Database, audit *auditlog.Logger, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if m == nil {
		m = metrics.New()
	}
	return &Handler{
		Gigs:     gigstore.New(db),
		AuditLog: audit,
		Metrics:  m,
		Log:      logger,
		now:      time.Now,
	}
}

// storeErr maps gigstore sentinels to client-facing errors.
func storeErr(err error) error {
	switch {
	case errors.Is(err, gigstore.ErrNotFound):
		return apperr.Missing("Gig not found.")
	case errors.Is(err, gigstore.ErrRequired):
		return apperr.BadRequest("Title, description and location are required.")
	case errors.Is(err, gigstore.ErrBadStatus):
		return apperr.BadRequest(`Status must be "open" or "closed".`)
	case errors.Is(err, gigstore.ErrNoChanges):
		return apperr.BadRequest("No valid fields to update.")
	default:
		return err
	}
}

// statsChanged drops the cached admin counts after the gig total moves.
func (h *Handler) statsChanged(ctx context.Context) {
	h.Stats.Forget(ctx, statscache.AdminStatsKey)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	apperr.Write(w, r, h.Log, storeErr(err))
}
