package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/skilllink/internal/app/store/audit"
	"github.com/dalemusser/skilllink/internal/app/system/auditlog"
	"github.com/dalemusser/skilllink/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/login", nil)

	// no-ops, not panics
	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "a@b.c")
	logger.AdminSeeded(ctx, primitive.NewObjectID(), "admin@b.c")
}

func TestLogger_Modes(t *testing.T) {
	tests := []struct {
		mode   string
		stored bool
	}{
		{auditlog.ModeOff, false},
		{auditlog.ModeLog, false},
		{auditlog.ModeDB, true},
		{auditlog.ModeAll, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: tt.mode, Admin: tt.mode})
			userID := primitive.NewObjectID()
			logger.LoginSuccess(ctx, httptest.NewRequest("POST", "/login", nil), userID, "p@x.io")

			events, err := store.ForUser(ctx, userID, 10)
			if err != nil {
				t.Fatalf("ForUser failed: %v", err)
			}
			if got := len(events) == 1; got != tt.stored {
				t.Errorf("mode %q: stored=%v, want %v", tt.mode, got, tt.stored)
			}
		})
	}
}

func TestLogger_AuthEventsCarryRequestContext(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db", Admin: "off"})
	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "TestBrowser/1.0")

	userID := primitive.NewObjectID()
	logger.LoginFailedWrongPassword(ctx, req, userID, "p@x.io")
	// Admin is off; this one must not be stored.
	logger.BadgeMinted(ctx, req, userID, "tok", "gold")

	events, err := store.ForUser(ctx, userID, 10)
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.EventType != audit.EventLoginFailedWrongPassword || e.Success {
		t.Errorf("unexpected event %+v", e)
	}
	if e.IP != "203.0.113.7" {
		t.Errorf("IP = %q, want first forwarded address", e.IP)
	}
	if e.UserAgent != "TestBrowser/1.0" {
		t.Errorf("UserAgent = %q", e.UserAgent)
	}
}

func TestValidMode(t *testing.T) {
	for _, m := range []string{"all", "db", "log", "off"} {
		if !auditlog.ValidMode(m) {
			t.Errorf("expected %q valid", m)
		}
	}
	if auditlog.ValidMode("everything") {
		t.Error("expected unknown mode invalid")
	}
}
