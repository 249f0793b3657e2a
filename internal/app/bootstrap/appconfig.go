// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration. WAFFLE's CoreConfig covers
// ports, TLS, log level and request limits.
//
// The struct is passed to most lifecycle hooks, so any configuration needed
// during startup, request handling, or shutdown should live here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Bearer token configuration
	JWTSecret string        // HMAC signing key (32+ chars in production)
	JWTIssuer string        // "iss" claim
	JWTExpiry time.Duration // token lifetime

	// Background gig expiry
	GigSweepInterval time.Duration // 0 disables the sweeper

	// Login throttling: LoginRateLimit attempts per IP per window, half
	// that per email.
	LoginRateLimit  int
	LoginRateWindow time.Duration

	// Audit logging destinations: all, db, log or off
	AuditLogAuth  string
	AuditLogAdmin string

	// Optional Redis cache for admin stats
	RedisAddr     string // blank disables the cache
	RedisPassword string
	RedisDB       int
	StatsCacheTTL time.Duration

	// CORS
	CORSAllowedOrigins []string

	// Operator bootstrap (both blank skips seeding)
	AdminEmail    string
	AdminPassword string
}
