package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/skilllink/internal/app/store/audit"
	"github.com/dalemusser/skilllink/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventLoginSuccess,
		UserID:    &userID,
		IP:        "192.168.1.1",
		UserAgent: "TestBrowser/1.0",
		Success:   true,
	})
	if err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.ForUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected ID to be auto-generated")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestStore_QueryAndCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, FailureReason: "wrong password"},
		{Category: audit.CategoryAdmin, EventType: audit.EventRecordCreated, Success: true},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	n, err := store.CountByFilter(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 auth events, got %d", n)
	}

	failed := false
	got, err := store.Query(ctx, audit.QueryFilter{Success: &failed})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 1 || got[0].EventType != audit.EventLoginFailedWrongPassword {
		t.Errorf("expected only the failed login, got %+v", got)
	}
}

func TestStore_QueryWindowAndPaging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if err := store.Log(ctx, audit.Event{
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginFailedRateLimit,
			Timestamp: base.Add(time.Duration(i) * time.Hour),
		}); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	start, end := base.Add(time.Hour), base.Add(3*time.Hour)
	f := audit.QueryFilter{StartTime: &start, EndTime: &end}
	n, err := store.CountByFilter(ctx, f)
	if err != nil {
		t.Fatalf("CountByFilter failed: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 events in window, got %d", n)
	}

	f.Limit, f.Offset = 2, 1
	got, err := store.Query(ctx, f)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 2 || !got[0].Timestamp.Equal(base.Add(2*time.Hour)) || !got[1].Timestamp.Equal(start) {
		t.Errorf("unexpected page: %+v", got)
	}
}
