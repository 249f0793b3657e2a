// internal/app/features/applications/handler.go
package applications

import (
	"errors"
	"net/http"

	"github.com/dalemusser/skilllink/internal/app/policy/gigpolicy"
	applicationstore "github.com/dalemusser/skilllink/internal/app/store/applications"
	gigstore "github.com/dalemusser/skilllink/internal/app/store/gigs"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/authz"
	"github.com/dalemusser/skilllink/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skilllink/internal/app/system/inputval"
	"github.com/dalemusser/skilllink/internal/app/system/metrics"
	"github.com/dalemusser/skilllink/internal/app/system/normalize"
	"github.com/dalemusser/skilllink/internal/app/system/statscache"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const notOwner = "You don't own this gig."

// Handler serves the application pipeline between players and gig owners.
type Handler struct {
	DB      *mongo.Database
	Apps    *applicationstore.Store
	Gigs    *gigstore.Store
	Metrics *metrics.Metrics
	Stats   *statscache.Cache
	Log     *zap.Logger
}

func NewHandler(db *mongo.Database, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if m == nil {
		m = metrics.New()
	}
	return &Handler{
		DB:      db,
		Apps:    applicationstore.New(db),
		Gigs:    gigstore.New(db),
		Metrics: m,
		Log:     logger,
	}
}

type applyInput struct {
	GigID      string  `json:"gig_id" validate:"required,objectid"`
	ResumeLink *string `json:"resume_link" validate:"omitempty,httpurl"`
	Message    *string `json:"message" validate:"omitempty,max=2000"`
}

type createdResponse struct {
	ID string `json:"id"`
}

// HandleApply handles POST /apply. A player may hold one live application
// per gig; once rejected they may apply again. The duplicate check is a
// read before the insert, so two simultaneous requests can both succeed.
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, r, h.Log, apperr.Unauthorized("Not authenticated."))
		return
	}

	var in applyInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	gigOID, err := inputval.ParseObjectID(in.GigID, "gig")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "apply")
	defer cancel()

	if _, err := h.Gigs.GetByID(ctx, gigOID); err != nil {
		if errors.Is(err, gigstore.ErrNotFound) {
			err = apperr.Missing("Gig not found.")
		}
		apperr.Write(w, r, h.Log, err)
		return
	}

	playerID := uid.Hex()
	exists, err := h.Apps.ActiveExists(ctx, gigOID.Hex(), playerID)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if exists {
		apperr.Write(w, r, h.Log, apperr.Duplicate("You have already applied to this gig."))
		return
	}

	a, err := h.Apps.Create(ctx, models.Application{
		GigID:      gigOID.Hex(),
		PlayerID:   playerID,
		ResumeLink: in.ResumeLink,
		Message:    htmlsanitize.PlainTextPtr(in.Message),
	})
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	h.Metrics.Applications.Inc()
	h.Log.Info("application submitted",
		zap.String("application_id", a.ID.Hex()),
		zap.String("gig_id", a.GigID),
		zap.String("player_id", playerID))
	h.Stats.Forget(ctx, statscache.AdminStatsKey)
	apperr.JSON(w, http.StatusOK, createdResponse{ID: a.ID.Hex()})
}

// ServeForGig handles GET /applications/{id}, where id names a gig. Only the
// owning org may list; an unknown gig is reported like someone else's gig.
func (h *Handler) ServeForGig(w http.ResponseWriter, r *http.Request) {
	gigID := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "applications for gig")
	defer cancel()

	allowed, err := gigpolicy.CanManageApplications(ctx, h.DB, r, gigID)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if !allowed {
		apperr.Write(w, r, h.Log, apperr.Deny(notOwner))
		return
	}

	rows, err := h.Apps.ListForGig(ctx, gigID)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.JSON(w, http.StatusOK, rows)
}

// ServeMine handles GET /my_applications.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	playerID := authz.UserID(r)
	if playerID == "" {
		apperr.Write(w, r, h.Log, apperr.Unauthorized("Not authenticated."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "my applications")
	defer cancel()

	rows, err := h.Apps.ListForPlayer(ctx, playerID)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.JSON(w, http.StatusOK, rows)
}

// loadManaged resolves {id} to an application whose gig the caller owns.
// It writes the error response itself and returns ok=false on failure.
func (h *Handler) loadManaged(w http.ResponseWriter, r *http.Request) (models.Application, bool) {
	oid, err := inputval.ParseObjectID(chi.URLParam(r, "id"), "application")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return models.Application{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "application lookup")
	defer cancel()

	a, err := h.Apps.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, applicationstore.ErrNotFound) {
			err = apperr.Missing("Application not found.")
		}
		apperr.Write(w, r, h.Log, err)
		return models.Application{}, false
	}

	allowed, err := gigpolicy.CanManageApplications(ctx, h.DB, r, a.GigID)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return models.Application{}, false
	}
	if !allowed {
		apperr.Write(w, r, h.Log, apperr.Deny(notOwner))
		return models.Application{}, false
	}
	return a, true
}

// HandleStatus handles PATCH /applications/{id}/status?status=.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status := normalize.Status(query.Get(r, "status"))
	if !models.IsValidApplicationStatus(status) {
		apperr.Write(w, r, h.Log, apperr.BadRequest("Invalid status value."))
		return
	}

	a, ok := h.loadManaged(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "application status")
	defer cancel()

	if err := h.Apps.UpdateStatus(ctx, a.ID, status); err != nil {
		if errors.Is(err, applicationstore.ErrNotFound) {
			err = apperr.Missing("Application not found.")
		}
		apperr.Write(w, r, h.Log, err)
		return
	}

	h.Log.Info("application status changed",
		zap.String("application_id", a.ID.Hex()),
		zap.String("from", a.Status),
		zap.String("to", status))
	apperr.JSON(w, http.StatusOK, apperr.Message{Message: "Application status updated to " + status + "."})
}

// HandleDelete handles DELETE /applications/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	a, ok := h.loadManaged(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "application delete")
	defer cancel()

	n, err := h.Apps.Delete(ctx, a.ID)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if n == 0 {
		apperr.Write(w, r, h.Log, apperr.Missing("Application not found."))
		return
	}
	h.Stats.Forget(ctx, statscache.AdminStatsKey)
	apperr.JSON(w, http.StatusOK, apperr.Message{Message: "Application deleted successfully."})
}
