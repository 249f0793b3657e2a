// Package auditlog exposes the security audit trail to admins as a paged
// JSON feed.
package auditlog

import (
	"github.com/dalemusser/skilllink/internal/app/store/audit"
	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Events *audit.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{Events: audit.New(db), Log: logger}
}

// Routes is mounted at /admin/audit. Every route is admin-only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(models.UserTypeAdmin))
	r.Get("/", h.ServeList)
	return r
}
