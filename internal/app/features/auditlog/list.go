package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/skilllink/internal/app/store/audit"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/skilllink/internal/app/system/inputval"
	"github.com/dalemusser/skilllink/internal/app/system/paging"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

// eventView is the JSON form of an audit event.
type eventView struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Category      string            `json:"category"`
	EventType     string            `json:"event_type"`
	UserID        string            `json:"user_id,omitempty"`
	ActorID       string            `json:"actor_id,omitempty"`
	IP            string            `json:"ip"`
	UserAgent     string            `json:"user_agent,omitempty"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failure_reason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

func toView(e audit.Event) eventView {
	v := eventView{
		ID:            e.ID.Hex(),
		Timestamp:     e.Timestamp,
		Category:      e.Category,
		EventType:     e.EventType,
		IP:            e.IP,
		UserAgent:     e.UserAgent,
		Success:       e.Success,
		FailureReason: e.FailureReason,
		Details:       e.Details,
	}
	if e.UserID != nil {
		v.UserID = e.UserID.Hex()
	}
	if e.ActorID != nil {
		v.ActorID = e.ActorID.Hex()
	}
	return v
}

// ServeList handles GET /admin/audit, newest first.
//
// Filters: category, event_type, user_id, success (true|false), and
// start_date / end_date as YYYY-MM-DD (end_date covers the whole day).
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p, err := paging.Parse(r)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	filter.Limit = p.Limit
	filter.Offset = p.Skip()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		apperr.Write(w, r, h.Log, err)
		return
	}

	views := make([]eventView, 0, len(events))
	for _, e := range events {
		views = append(views, toView(e))
	}
	apperr.JSON(w, http.StatusOK, paging.NewPage(p, views, total))
}

func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	f := audit.QueryFilter{
		Category:  query.Get(r, "category"),
		EventType: query.Get(r, "event_type"),
	}

	if v := query.Get(r, "user_id"); v != "" {
		oid, err := inputval.ParseObjectID(v, "user")
		if err != nil {
			return f, err
		}
		f.UserID = &oid
	}
	if v := query.Get(r, "success"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, apperr.BadRequest("success must be true or false.")
		}
		f.Success = &b
	}
	if v := query.Get(r, "start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, apperr.BadRequest("Invalid start_date; use YYYY-MM-DD.")
		}
		f.StartTime = &t
	}
	if v := query.Get(r, "end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, apperr.BadRequest("Invalid end_date; use YYYY-MM-DD.")
		}
		// End of day
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		f.EndTime = &endOfDay
	}
	return f, nil
}
