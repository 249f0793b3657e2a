package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowAndExpire(t *testing.T) {
	l := New(2, time.Minute)
	defer l.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	if !l.Allow("k") || !l.Allow("k") {
		t.Fatal("first two requests should pass")
	}
	if l.Allow("k") {
		t.Error("third request should be limited")
	}
	if l.Remaining("k") != 0 {
		t.Errorf("Remaining = %d, want 0", l.Remaining("k"))
	}
	if !l.Allow("other") {
		t.Error("keys are independent")
	}

	now = now.Add(time.Minute + time.Second)
	if !l.Allow("k") {
		t.Error("window should have expired")
	}
	if l.Remaining("k") != 1 {
		t.Errorf("Remaining = %d, want 1", l.Remaining("k"))
	}
}

func TestLimiter_ResetAndSweep(t *testing.T) {
	l := New(1, time.Minute)
	defer l.Stop()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	l.Reset("a")
	if !l.Allow("a") {
		t.Error("Reset should clear the key")
	}

	now = now.Add(2 * time.Minute)
	l.sweep()
	l.mu.Lock()
	n := len(l.windows)
	l.mu.Unlock()
	if n != 0 {
		t.Errorf("expected expired windows swept, %d remain", n)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	l := New(1, time.Second)
	l.Stop()
	l.Stop()
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		xri    string
		remote string
		want   string
	}{
		{"forwarded first hop", "203.0.113.7, 10.0.0.1", "", "10.0.0.2:1234", "203.0.113.7"},
		{"real ip", "", "198.51.100.9", "10.0.0.2:1234", "198.51.100.9"},
		{"remote with port", "", "", "192.0.2.1:5555", "192.0.2.1"},
		{"remote without port", "", "", "192.0.2.1", "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/login", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := NewLoginLimiter(4, time.Minute)
	defer ll.Stop()

	req := httptest.NewRequest("POST", "/login", nil)

	// per-email budget is 2
	for i := 0; i < 2; i++ {
		if ok, _ := ll.Check(req, "Pro@Team.gg"); !ok {
			t.Fatalf("attempt %d should pass", i+1)
		}
	}
	if ok, reason := ll.Check(req, "pro@team.gg"); ok || reason == "" {
		t.Error("third attempt on the same account should be limited with a reason")
	}

	ll.ResetEmail("PRO@team.gg")
	if ok, _ := ll.Check(req, "pro@team.gg"); !ok {
		t.Error("ResetEmail should restore the account budget")
	}

	// IP budget (4) is now spent.
	if ok, _ := ll.Check(req, "someone-else@team.gg"); ok {
		t.Error("IP budget should be exhausted")
	}
}
