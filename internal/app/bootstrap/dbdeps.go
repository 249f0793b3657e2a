// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/skilllink/internal/app/system/auditlog"
	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/app/system/metrics"
	"github.com/dalemusser/skilllink/internal/app/system/ratelimit"
	"github.com/dalemusser/skilllink/internal/app/system/statscache"
	"github.com/dalemusser/skilllink/internal/app/system/workers"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	Redis         *redis.Client // nil when redis_addr is blank

	// Runtime is allocated by ConnectDB and filled in by Startup; the hooks
	// receive DBDeps by value, so services are shared through this pointer.
	Runtime *Runtime
}

// Runtime holds the long-lived services built once at startup.
type Runtime struct {
	Issuer   *auth.Issuer
	Limiter  *ratelimit.LoginLimiter
	Sweeper  *workers.GigSweeper // nil when disabled
	Metrics  *metrics.Metrics
	AuditLog *auditlog.Logger
	Cache    *statscache.Cache
}
