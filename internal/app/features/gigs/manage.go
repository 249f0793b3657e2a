// internal/app/features/gigs/manage.go
package gigs

import (
	"net/http"
	"time"

	"github.com/dalemusser/skilllink/internal/app/policy/gigpolicy"
	gigstore "github.com/dalemusser/skilllink/internal/app/store/gigs"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/authz"
	"github.com/dalemusser/skilllink/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skilllink/internal/app/system/inputval"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// updateInput whitelists the fields an owner may change. Anything else in
// the body is ignored.
type updateInput struct {
	Title          *string    `json:"title" validate:"omitempty,max=200"`
	Description    *string    `json:"description" validate:"omitempty,max=5000"`
	Location       *string    `json:"location" validate:"omitempty,max=200"`
	Game           *string    `json:"game" validate:"omitempty,max=100"`
	Budget         *string    `json:"budget" validate:"omitempty,max=100"`
	SkillsRequired []string   `json:"skills_required" validate:"omitempty,max=50,dive,max=100"`
	Tags           []string   `json:"tags" validate:"omitempty,max=50,dive,max=50"`
	Deadline       *time.Time `json:"deadline"`
	Status         *string    `json:"status"`
}

func (in updateInput) toUpdate() gigstore.Update {
	upd := gigstore.Update{
		Title:          htmlsanitize.PlainTextPtr(in.Title),
		Location:       htmlsanitize.PlainTextPtr(in.Location),
		Game:           htmlsanitize.PlainTextPtr(in.Game),
		Budget:         htmlsanitize.PlainTextPtr(in.Budget),
		SkillsRequired: in.SkillsRequired,
		Tags:           in.Tags,
		Deadline:       in.Deadline,
		Status:         in.Status,
	}
	if in.Description != nil {
		d := htmlsanitize.Sanitize(*in.Description)
		upd.Description = &d
	}
	return upd
}

// loadOwned resolves {id} and checks that the caller posted the gig.
// It writes the error response itself and returns ok=false on failure.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request, denyMsg string) (models.Gig, bool) {
	oid, err := inputval.ParseObjectID(chi.URLParam(r, "id"), "gig")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return models.Gig{}, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "gig lookup")
	defer cancel()

	g, err := h.Gigs.GetByID(ctx, oid)
	if err != nil {
		h.fail(w, r, err)
		return models.Gig{}, false
	}
	if !gigpolicy.OwnsGig(r, g) {
		apperr.Write(w, r, h.Log, apperr.Deny(denyMsg))
		return models.Gig{}, false
	}
	return g, true
}

// HandleUpdate handles PATCH /gigs/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadOwned(w, r, "Unauthorized to edit this gig.")
	if !ok {
		return
	}

	var in updateInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	upd := in.toUpdate()
	if upd.IsEmpty() {
		apperr.Write(w, r, h.Log, apperr.BadRequest("No valid fields to update."))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "gig update")
	defer cancel()

	if err := h.Gigs.Update(ctx, g.ID, upd); err != nil {
		h.fail(w, r, err)
		return
	}
	apperr.JSON(w, http.StatusOK, apperr.Message{Message: "Gig updated successfully."})
}

// HandleDelete handles DELETE /gigs/{id}. Applications to the gig are kept.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	g, ok := h.loadOwned(w, r, "Unauthorized to delete this gig.")
	if !ok {
		return
	}
	_, actor, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "gig delete")
	defer cancel()

	n, err := h.Gigs.Delete(ctx, g.ID)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if n == 0 {
		apperr.Write(w, r, h.Log, apperr.Missing("Gig not found."))
		return
	}

	h.AuditLog.GigDeleted(ctx, r, actor, g.ID.Hex(), g.Title)
	h.Log.Info("gig deleted", zap.String("gig_id", g.ID.Hex()), zap.String("org_id", g.OrgID))
	h.statsChanged(ctx)
	apperr.JSON(w, http.StatusOK, apperr.Message{Message: "Gig deleted successfully."})
}
