package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/app/system/metrics"
	"github.com/dalemusser/skilllink/internal/app/system/passwords"
	"github.com/dalemusser/skilllink/internal/app/system/ratelimit"
	"github.com/dalemusser/skilllink/internal/app/system/statscache"
	"github.com/dalemusser/skilllink/internal/domain/models"
	"github.com/dalemusser/skilllink/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:       "mongodb://localhost:27017",
		MongoDatabase:  "skilllink_test",
		JWTSecret:      strings.Repeat("k", 40),
		JWTIssuer:      "skilllink",
		JWTExpiry:      time.Hour,
		LoginRateLimit: 10,
		AuditLogAuth:   "all",
		AuditLogAdmin:  "off",
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", prod, func(*AppConfig) {}, false},
		{"bad mongo uri", dev, func(c *AppConfig) { c.MongoURI = "postgres://nope" }, true},
		{"empty secret", dev, func(c *AppConfig) { c.JWTSecret = "" }, true},
		{"short secret ok in dev", dev, func(c *AppConfig) { c.JWTSecret = "short" }, false},
		{"short secret rejected in prod", prod, func(c *AppConfig) { c.JWTSecret = "short" }, true},
		{"dev secret rejected in prod", prod, func(c *AppConfig) { c.JWTSecret = devJWTSecret }, true},
		{"zero expiry", dev, func(c *AppConfig) { c.JWTExpiry = 0 }, true},
		{"zero rate limit", dev, func(c *AppConfig) { c.LoginRateLimit = 0 }, true},
		{"bad audit mode", dev, func(c *AppConfig) { c.AuditLogAdmin = "sometimes" }, true},
		{"admin email without password", dev, func(c *AppConfig) { c.AdminEmail = "ops@example.com" }, true},
		{"admin pair", dev, func(c *AppConfig) { c.AdminEmail, c.AdminPassword = "ops@example.com", "secret123" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJWTExpiryDefault(t *testing.T) {
	if defaultJWTExpiry != 24*time.Hour {
		t.Errorf("defaultJWTExpiry = %v, want 24h", defaultJWTExpiry)
	}
	for _, k := range appConfigKeys {
		if k.Name != "jwt_expiry" {
			continue
		}
		raw, _ := k.Default.(string)
		d, err := time.ParseDuration(raw)
		if err != nil || d != defaultJWTExpiry {
			t.Errorf("jwt_expiry key default = %v, want %v", k.Default, defaultJWTExpiry)
		}
		return
	}
	t.Fatal("jwt_expiry key not declared")
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://a.example.com, ,https://b.example.com,")
	if len(got) != 2 || got[0] != "https://a.example.com" || got[1] != "https://b.example.com" {
		t.Errorf("splitList: %q", got)
	}
	if got := splitList(""); got != nil {
		t.Errorf("empty input: %q", got)
	}
}

func TestSeedAdmin_CreatesOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	audit := newAuditLogger(validConfig(), db, testLogger())
	for i := 0; i < 2; i++ {
		if err := seedAdmin(ctx, db, "Ops@Example.com", "secret123", audit, testLogger()); err != nil {
			t.Fatalf("seedAdmin #%d: %v", i+1, err)
		}
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": "ops@example.com"})
	if err != nil || n != 1 {
		t.Fatalf("expected one admin, got %d (%v)", n, err)
	}

	var u models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "ops@example.com"}).Decode(&u); err != nil {
		t.Fatalf("find admin: %v", err)
	}
	if u.UserType != models.UserTypeAdmin {
		t.Errorf("user_type: got %q", u.UserType)
	}
	if err := passwords.Check(u.PasswordHash, "secret123"); err != nil {
		t.Error("seeded password does not verify")
	}
}

func TestSeedAdmin_LeavesExistingUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreatePlayer(ctx, "taken", "taken@example.com")
	if err := seedAdmin(ctx, db, "taken@example.com", "secret123", nil, testLogger()); err != nil {
		t.Fatalf("seedAdmin: %v", err)
	}

	var u models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "taken@example.com"}).Decode(&u); err != nil {
		t.Fatalf("find: %v", err)
	}
	if u.UserType != models.UserTypePlayer {
		t.Errorf("existing user should keep type player, got %q", u.UserType)
	}
}

// testRouter assembles the full router against the test database, the way
// Startup and BuildHandler do in production.
func testRouter(t *testing.T, db *mongo.Database) http.Handler {
	t.Helper()
	cfg := validConfig()
	cfg.CORSAllowedOrigins = []string{"*"}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiry, testLogger())
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	limiter := ratelimit.NewLoginLimiter(100, time.Minute)
	t.Cleanup(limiter.Stop)

	deps := DBDeps{
		MongoClient:   db.Client(),
		MongoDatabase: db,
		Runtime: &Runtime{
			Issuer:   issuer,
			Limiter:  limiter,
			Metrics:  metrics.New(),
			AuditLog: newAuditLogger(cfg, db, testLogger()),
			Cache:    statscache.New(nil, 0, testLogger()),
		},
	}
	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	return h
}

func TestBuildHandler_RequiresRuntime(t *testing.T) {
	if _, err := BuildHandler(&config.CoreConfig{}, validConfig(), DBDeps{}, testLogger()); err == nil {
		t.Error("expected error without runtime services")
	}
}

func TestRouter_EndToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := testRouter(t, db)

	do := func(req *http.Request, token string) *httptest.ResponseRecorder {
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}
	login := func(email, userType string) string {
		rec := do(testutil.JSONRequest(t, "POST", "/register", map[string]any{
			"username": strings.Split(email, "@")[0], "email": email, "password": "secret123", "user_type": userType,
		}), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("register %s: %d %s", email, rec.Code, rec.Body.String())
		}
		rec = do(testutil.JSONRequest(t, "POST", "/login", map[string]any{"email": email, "password": "secret123"}), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body.String())
		}
		var tok struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		}
		testutil.DecodeJSON(t, rec, &tok)
		if tok.TokenType != "bearer" || tok.AccessToken == "" {
			t.Fatalf("token response: %+v", tok)
		}
		return tok.AccessToken
	}

	orgToken := login("org@example.com", "org")
	playerToken := login("player@example.com", "player")

	rec := do(testutil.NewRequest("GET", "/me"), playerToken)
	var me struct {
		Email    string `json:"email"`
		UserType string `json:"user_type"`
	}
	testutil.DecodeJSON(t, rec, &me)
	if me.Email != "player@example.com" || me.UserType != "player" {
		t.Errorf("/me: %+v", me)
	}

	rec = do(testutil.JSONRequest(t, "POST", "/gigs", map[string]any{
		"title": "Scrim partner", "description": "Weekly scrims", "location": "Remote",
	}), orgToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("create gig: %d %s", rec.Code, rec.Body.String())
	}
	var gig struct {
		ID string `json:"id"`
	}
	testutil.DecodeJSON(t, rec, &gig)

	rec = do(testutil.JSONRequest(t, "POST", "/gigs", map[string]any{
		"title": "x", "description": "y", "location": "z",
	}), playerToken)
	if rec.Code != http.StatusForbidden {
		t.Errorf("player creating gig: expected %d, got %d", http.StatusForbidden, rec.Code)
	}

	rec = do(testutil.JSONRequest(t, "POST", "/apply", map[string]any{"gig_id": gig.ID}), playerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("apply: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(testutil.NewRequest("GET", "/applications/"+gig.ID), orgToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("list applications: %d %s", rec.Code, rec.Body.String())
	}
	var apps []map[string]any
	testutil.DecodeJSON(t, rec, &apps)
	if len(apps) != 1 {
		t.Errorf("expected 1 application, got %d", len(apps))
	}

	rec = do(testutil.NewRequest("GET", "/me"), "not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: expected %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := testRouter(t, db)

	tests := []struct {
		path   string
		status int
		body   string
	}{
		{"/", http.StatusOK, "SkillLink Backend Running"},
		{"/health", http.StatusOK, `"database":"connected"`},
		{"/metrics", http.StatusOK, "skilllink_http_requests_total"},
		{"/no/such/route", http.StatusNotFound, `"detail":"Not Found"`},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			// Prime the request counter so /metrics has a sample to expose.
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))
			if rec.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body %q does not contain %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := testRouter(t, db)

	req := httptest.NewRequest("OPTIONS", "/gigs", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got == "" {
		t.Errorf("expected Access-Control-Allow-Origin header, got none (status %d)", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "" {
		t.Errorf("wildcard origins must not allow credentials, got %q", got)
	}
}

func TestCredentialsAllowed(t *testing.T) {
	tests := []struct {
		origins []string
		want    bool
	}{
		{nil, false},
		{[]string{"*"}, false},
		{[]string{"https://app.example.com", "*"}, false},
		{[]string{"https://app.example.com"}, true},
		{[]string{"https://app.example.com", "https://admin.example.com"}, true},
	}
	for _, tt := range tests {
		if got := credentialsAllowed(tt.origins); got != tt.want {
			t.Errorf("credentialsAllowed(%v) = %v, want %v", tt.origins, got, tt.want)
		}
	}
}
