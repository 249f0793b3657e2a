// internal/app/features/gigs/create.go
package gigs

import (
	"net/http"
	"time"

	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/authz"
	"github.com/dalemusser/skilllink/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skilllink/internal/app/system/inputval"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"go.uber.org/zap"
)

type createInput struct {
	Title          string     `json:"title" validate:"notblank,max=200"`
	Description    string     `json:"description" validate:"notblank,max=5000"`
	Location       string     `json:"location" validate:"notblank,max=200"`
	Game           *string    `json:"game" validate:"omitempty,max=100"`
	Budget         *string    `json:"budget" validate:"omitempty,max=100"`
	SkillsRequired []string   `json:"skills_required" validate:"max=50,dive,max=100"`
	Tags           []string   `json:"tags" validate:"max=50,dive,max=50"`
	Deadline       *time.Time `json:"deadline"`
	Status         string     `json:"status"`
}

// HandleCreate handles POST /gigs. The caller's org id becomes the owner.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, r, h.Log, apperr.Unauthorized("Not authenticated."))
		return
	}

	var in createInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	g := models.Gig{
		Title:          htmlsanitize.PlainText(in.Title),
		Description:    htmlsanitize.Sanitize(in.Description),
		Location:       htmlsanitize.PlainText(in.Location),
		Game:           htmlsanitize.PlainTextPtr(in.Game),
		Budget:         htmlsanitize.PlainTextPtr(in.Budget),
		SkillsRequired: in.SkillsRequired,
		Tags:           in.Tags,
		Deadline:       in.Deadline,
		Status:         in.Status,
		OrgID:          uid.Hex(),
	}
	if g.Deadline != nil {
		d := g.Deadline.UTC()
		g.Deadline = &d
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "gig create")
	defer cancel()

	created, err := h.Gigs.Create(ctx, g)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.Log.Info("gig created",
		zap.String("gig_id", created.ID.Hex()),
		zap.String("org_id", created.OrgID))
	h.statsChanged(ctx)
	apperr.JSON(w, http.StatusOK, created)
}
