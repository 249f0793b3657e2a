// internal/app/features/gigs/list.go
package gigs

import (
	"net/http"

	gigstore "github.com/dalemusser/skilllink/internal/app/store/gigs"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/authz"
	"github.com/dalemusser/skilllink/internal/app/system/inputval"
	"github.com/dalemusser/skilllink/internal/app/system/paging"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeList handles GET /gigs.
//
// Every browse first closes open gigs whose deadline has passed, so the
// page never shows an expired gig as open even when the background sweeper
// is disabled.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, err := paging.Parse(r)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	sort, err := paging.ParseSort(r, "created_at", "created_at", "title")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	f := gigstore.Filter{
		Title:    query.Get(r, "title"),
		Location: query.Get(r, "location"),
		OrgID:    query.Get(r, "org_id"),
		Status:   query.Get(r, "status"),
		Tag:      query.Get(r, "tag"),
		Search:   query.Get(r, "search"),
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "gig browse")
	defer cancel()

	swept, err := h.Gigs.SweepExpired(ctx, h.now().UTC())
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if swept > 0 {
		h.Metrics.GigsSwept.Add(float64(swept))
		h.Log.Debug("closed expired gigs on browse", zap.Int64("count", swept))
	}

	rows, total, err := h.Gigs.List(ctx, f, sort, p)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if err := h.Gigs.FillApplicantCounts(ctx, rows); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	apperr.JSON(w, http.StatusOK, paging.NewPage(p, rows, total))
}

// ServeMine handles GET /my_gigs: the calling org's gigs, newest first.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	_, uid, ok := authz.UserCtx(r)
	if !ok {
		apperr.Write(w, r, h.Log, apperr.Unauthorized("Not authenticated."))
		return
	}
	p, err := paging.Parse(r)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "my gigs")
	defer cancel()

	sort := paging.Sort{Field: "created_at", Order: -1}
	rows, total, err := h.Gigs.List(ctx, gigstore.Filter{OrgID: uid.Hex()}, sort, p)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	if err := h.Gigs.FillApplicantCounts(ctx, rows); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	apperr.JSON(w, http.StatusOK, paging.NewPage(p, rows, total))
}

// ServeGig handles GET /gigs/{id}.
func (h *Handler) ServeGig(w http.ResponseWriter, r *http.Request) {
	oid, err := inputval.ParseObjectID(chi.URLParam(r, "id"), "gig")
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "gig lookup")
	defer cancel()

	g, err := h.Gigs.GetByID(ctx, oid)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	one := []models.Gig{g}
	if err := h.Gigs.FillApplicantCounts(ctx, one); err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	apperr.JSON(w, http.StatusOK, one[0])
}
