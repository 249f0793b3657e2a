// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/skilllink/internal/app/system/auditlog"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// minJWTSecret is the shortest signing key accepted in production.
const minJWTSecret = 32

const devJWTSecret = "dev-only-change-me-please-0123456789ABCDEF"

// defaultJWTExpiry is the access token lifetime when jwt_expiry is unset.
const defaultJWTExpiry = 24 * time.Hour

// appConfigKeys defines the configuration keys for SkillLink.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, jwt_secret, etc.
//   - Environment variables: SKILLLINK_MONGO_URI, SKILLLINK_JWT_SECRET, etc.
//   - Command-line flags: --mongo_uri, --jwt_secret, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "skilllink", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Bearer tokens
	{Name: "jwt_secret", Default: devJWTSecret, Desc: "JWT signing key (must be strong in production)"},
	{Name: "jwt_issuer", Default: "skilllink", Desc: "JWT issuer claim"},
	{Name: "jwt_expiry", Default: "24h", Desc: "Access token lifetime (e.g., 60m, 24h)"},

	// Workers
	{Name: "gig_sweep_interval", Default: "1m", Desc: "How often expired gigs are closed; 0 disables"},

	// Login throttling
	{Name: "login_rate_limit", Default: 10, Desc: "Login attempts allowed per IP per window"},
	{Name: "login_rate_window", Default: "15m", Desc: "Login rate limit window"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Redis stats cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the admin stats cache (blank disables)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "stats_cache_ttl", Default: "30s", Desc: "How long admin stats are cached"},

	{Name: "cors_allowed_origins", Default: "*", Desc: "Comma-separated CORS origins"},

	// Operator bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin account created on startup if missing"},
	{Name: "admin_password", Default: "", Desc: "Password for the seeded admin account"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, SKILLLINK_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "SKILLLINK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		JWTSecret: appValues.String("jwt_secret"),
		JWTIssuer: appValues.String("jwt_issuer"),
		JWTExpiry: appValues.Duration("jwt_expiry", defaultJWTExpiry),

		GigSweepInterval: appValues.Duration("gig_sweep_interval", time.Minute),

		LoginRateLimit:  appValues.Int("login_rate_limit"),
		LoginRateWindow: appValues.Duration("login_rate_window", 15*time.Minute),

		AuditLogAuth:  strings.ToLower(appValues.String("audit_log_auth")),
		AuditLogAdmin: strings.ToLower(appValues.String("audit_log_admin")),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),
		StatsCacheTTL: appValues.Duration("stats_cache_ttl", 30*time.Second),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
	}

	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Any("timeouts", timeouts.Current()))
	}

	return coreCfg, appCfg, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// The MongoDB URI is checked before attempting to connect.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if appCfg.JWTSecret == "" {
		return fmt.Errorf("jwt_secret is required")
	}
	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.JWTSecret == devJWTSecret || len(appCfg.JWTSecret) < minJWTSecret {
			return fmt.Errorf("jwt_secret must be a private value of at least %d characters in prod", minJWTSecret)
		}
	}
	if appCfg.JWTExpiry <= 0 {
		return fmt.Errorf("jwt_expiry must be positive, got %v", appCfg.JWTExpiry)
	}
	if appCfg.LoginRateLimit < 1 {
		return fmt.Errorf("login_rate_limit must be at least 1, got %d", appCfg.LoginRateLimit)
	}

	for key, mode := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		if !auditlog.ValidMode(mode) {
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, mode)
		}
	}

	if (appCfg.AdminEmail == "") != (appCfg.AdminPassword == "") {
		return fmt.Errorf("admin_email and admin_password must be set together")
	}

	return nil
}
