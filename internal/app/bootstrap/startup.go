// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	gigstore "github.com/dalemusser/skilllink/internal/app/store/gigs"
	"github.com/dalemusser/skilllink/internal/app/system/auth"
	"github.com/dalemusser/skilllink/internal/app/system/metrics"
	"github.com/dalemusser/skilllink/internal/app/system/ratelimit"
	"github.com/dalemusser/skilllink/internal/app/system/statscache"
	"github.com/dalemusser/skilllink/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It fills
// deps.Runtime and starts the gig sweeper.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	rt := deps.Runtime

	issuer, err := auth.NewIssuer(appCfg.JWTSecret, appCfg.JWTIssuer, appCfg.JWTExpiry, logger)
	if err != nil {
		return err
	}
	rt.Issuer = issuer
	rt.Metrics = metrics.New()
	rt.AuditLog = newAuditLogger(appCfg, deps.MongoDatabase, logger)
	rt.Limiter = ratelimit.NewLoginLimiter(appCfg.LoginRateLimit, appCfg.LoginRateWindow)

	// A nil *redis.Client must not reach statscache as a non-nil interface.
	if deps.Redis != nil {
		rt.Cache = statscache.New(deps.Redis, appCfg.StatsCacheTTL, logger)
	} else {
		rt.Cache = statscache.New(nil, 0, logger)
	}

	if appCfg.GigSweepInterval > 0 {
		rt.Sweeper = workers.NewGigSweeper(gigstore.New(deps.MongoDatabase), logger, appCfg.GigSweepInterval)
		rt.Sweeper.Start()
	} else {
		logger.Info("gig sweeper disabled")
	}

	return nil
}
