// internal/app/features/endorsements/handler.go
package endorsements

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/skilllink/internal/app/policy/endorsementpolicy"
	endorsementstore "github.com/dalemusser/skilllink/internal/app/store/endorsements"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/authz"
	"github.com/dalemusser/skilllink/internal/app/system/htmlsanitize"
	"github.com/dalemusser/skilllink/internal/app/system/inputval"
	"github.com/dalemusser/skilllink/internal/app/system/metrics"
	"github.com/dalemusser/skilllink/internal/app/system/paging"
	"github.com/dalemusser/skilllink/internal/app/system/statscache"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var errBadRating = apperr.BadRequest(fmt.Sprintf("Rating must be between %d and %d.", models.MinRating, models.MaxRating))

// Handler serves endorsements: orgs rate players, anyone can read them.
type Handler struct {
	Endorsements *endorsementstore.Store
	Metrics      *metrics.Metrics
	Stats        *statscache.Cache
	Log          *zap.Logger
}

func NewHandler(db *mongo.Database, m *metrics.Metrics, logger *zap.Logger) *Handler {
	if m == nil {
		m = metrics.New()
	}
	return &Handler{
		Endorsements: endorsementstore.New(db),
		Metrics:      m,
		Log:          logger,
	}
}

type endorseInput struct {
	EndorsedID string  `json:"endorsed_id" validate:"required"`
	Rating     *int    `json:"rating"`
	Comment    *string `json:"comment" validate:"omitempty,max=2000"`
}

type createdResponse struct {
	ID string `json:"id"`
}

// HandleEndorse handles POST /endorse.
//
// Checks run in a fixed order: self endorsement, then role, then rating, so
// a self endorsement is always reported as such whatever else is wrong.
func (h *Handler) HandleEndorse(w http.ResponseWriter, r *http.Request) {
	var in endorseInput
	if err := inputval.DecodeJSON(w, r, &in); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	endorsedID := strings.TrimSpace(in.EndorsedID)

	if endorsementpolicy.IsSelfEndorsement(r, endorsedID) {
		apperr.Write(w, r, h.Log, apperr.BadRequest("You can't endorse yourself."))
		return
	}
	if !endorsementpolicy.CanEndorse(r) {
		apperr.Write(w, r, h.Log, apperr.Deny("Only organizations can endorse players."))
		return
	}
	if in.Rating == nil {
		apperr.Write(w, r, h.Log, apperr.BadRequest("rating is required."))
		return
	}
	if *in.Rating < models.MinRating || *in.Rating > models.MaxRating {
		apperr.Write(w, r, h.Log, errBadRating)
		return
	}
	if _, err := inputval.ParseObjectID(endorsedID, "user"); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "endorse")
	defer cancel()

	e, err := h.Endorsements.Create(ctx, models.Endorsement{
		EndorsedID: endorsedID,
		EndorsedBy: authz.UserID(r),
		Rating:     *in.Rating,
		Comment:    htmlsanitize.PlainTextPtr(in.Comment),
	})
	switch {
	case err == nil:
	case errors.Is(err, endorsementstore.ErrSelfEndorsement):
		apperr.Write(w, r, h.Log, apperr.BadRequest("You can't endorse yourself."))
		return
	case errors.Is(err, endorsementstore.ErrBadRating):
		apperr.Write(w, r, h.Log, errBadRating)
		return
	default:
		apperr.Write(w, r, h.Log, err)
		return
	}

	h.Metrics.Endorsements.Inc()
	h.Log.Info("endorsement created",
		zap.String("endorsement_id", e.ID.Hex()),
		zap.String("endorsed_id", e.EndorsedID),
		zap.String("endorsed_by", e.EndorsedBy),
		zap.Int("rating", e.Rating))
	h.Stats.Forget(ctx, statscache.AdminStatsKey)
	apperr.JSON(w, http.StatusOK, createdResponse{ID: e.ID.Hex()})
}

// ServeList handles GET /endorsements/{id}, where id names the endorsed user.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, err := paging.Parse(r)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	f, err := parseFilter(r)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	sort, err := paging.ParseSort(r, "created_at", "created_at", "rating")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "endorsement list")
	defer cancel()

	rows, total, err := h.Endorsements.List(ctx, f, sort, p)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	apperr.JSON(w, http.StatusOK, paging.NewPage(p, rows, total))
}

func parseFilter(r *http.Request) (endorsementstore.Filter, error) {
	f := endorsementstore.Filter{
		EndorsedID: chi.URLParam(r, "id"),
		EndorsedBy: query.Get(r, "endorsed_by"),
	}

	var err error
	if f.MinRating, err = optionalInt(r, "min_rating"); err != nil {
		return f, err
	}
	if f.MaxRating, err = optionalInt(r, "max_rating"); err != nil {
		return f, err
	}
	if f.CreatedAfter, err = optionalDate(r, "created_after"); err != nil {
		return f, err
	}
	if f.CreatedBefore, err = optionalDate(r, "created_before"); err != nil {
		return f, err
	}
	return f, nil
}

func optionalInt(r *http.Request, name string) (*int, error) {
	raw := query.Get(r, name)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperr.BadRequest(name + " must be an integer.")
	}
	return &n, nil
}

func optionalDate(r *http.Request, name string) (*time.Time, error) {
	raw := query.Get(r, name)
	if raw == "" {
		return nil, nil
	}
	t, err := endorsementstore.ParseDate(raw)
	if err != nil {
		return nil, apperr.Wrap(apperr.Validation,
			"Invalid "+name+"; use ISO-8601 such as 2024-05-01 or 2024-05-01T12:00:00Z.", err)
	}
	return &t, nil
}

// HandleDelete handles DELETE /endorsements/{id}. Only the endorser may
// delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	oid, err := inputval.ParseObjectID(chi.URLParam(r, "id"), "endorsement")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "endorsement delete")
	defer cancel()

	e, err := h.Endorsements.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, endorsementstore.ErrNotFound) {
			err = apperr.Missing("Endorsement not found.")
		}
		apperr.Write(w, r, h.Log, err)
		return
	}
	if !endorsementpolicy.CanDelete(r, e) {
		apperr.Write(w, r, h.Log, apperr.Deny("You can only delete your own endorsements."))
		return
	}

	if _, err := h.Endorsements.Delete(ctx, oid); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	h.Stats.Forget(ctx, statscache.AdminStatsKey)
	apperr.JSON(w, http.StatusOK, apperr.Message{Message: "Endorsement deleted successfully."})
}
