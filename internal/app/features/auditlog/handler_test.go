package auditlog_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/skilllink/internal/app/features/auditlog"
	"github.com/dalemusser/skilllink/internal/app/store/audit"
	"github.com/dalemusser/skilllink/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listBody struct {
	Total   int64 `json:"total"`
	Results []struct {
		EventType string `json:"event_type"`
		UserID    string `json:"user_id"`
		Success   bool   `json:"success"`
	} `json:"results"`
}

func setup(t *testing.T) (http.Handler, *audit.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := auditlog.NewHandler(db, zap.NewNop())
	r := chi.NewRouter()
	r.Mount("/admin/audit", auditlog.Routes(h))
	return r, h.Events
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", path), testutil.AdminUser()))
	return rec
}

func TestServeList_Filters(t *testing.T) {
	router, store := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	day := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &user, Success: true, Timestamp: day},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, UserID: &user, Timestamp: day.Add(time.Hour)},
		{Category: audit.CategoryAdmin, EventType: audit.EventBadgeMinted, Success: true, Timestamp: day.AddDate(0, 0, 1)},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}

	tests := []struct {
		qs    string
		total int64
	}{
		{"", 3},
		{"?category=auth", 2},
		{"?event_type=badge_minted", 1},
		{"?user_id=" + user.Hex(), 2},
		{"?success=false", 1},
		{"?start_date=2024-05-03", 1},
		{"?end_date=2024-05-02", 2},
	}
	for _, tt := range tests {
		rec := get(router, "/admin/audit"+tt.qs)
		if rec.Code != http.StatusOK {
			t.Fatalf("%q: expected %d, got %d", tt.qs, http.StatusOK, rec.Code)
		}
		var body listBody
		testutil.DecodeJSON(t, rec, &body)
		if body.Total != tt.total || int64(len(body.Results)) != tt.total {
			t.Errorf("%q: total %d, results %d, want %d", tt.qs, body.Total, len(body.Results), tt.total)
		}
	}

	var newest listBody
	testutil.DecodeJSON(t, get(router, "/admin/audit?limit=1"), &newest)
	if len(newest.Results) != 1 || newest.Results[0].EventType != audit.EventBadgeMinted {
		t.Errorf("expected newest event first: %+v", newest.Results)
	}
}

func TestServeList_BadInput(t *testing.T) {
	router, _ := setup(t)

	for qs, detail := range map[string]string{
		"?user_id=abc":          "Invalid user id.",
		"?success=maybe":        "success must be true or false.",
		"?start_date=yesterday": "Invalid start_date; use YYYY-MM-DD.",
	} {
		rec := get(router, "/admin/audit"+qs)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected %d, got %d", qs, http.StatusBadRequest, rec.Code)
		}
		if got := testutil.Detail(t, rec); got != detail {
			t.Errorf("%s: detail %q, want %q", qs, got, detail)
		}
	}
}

func TestServeList_AdminOnly(t *testing.T) {
	router, _ := setup(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, testutil.WithUser(testutil.NewRequest("GET", "/admin/audit"), testutil.OrgUser()))
	if rec.Code != http.StatusForbidden {
		t.Errorf("expected %d, got %d", http.StatusForbidden, rec.Code)
	}
}
