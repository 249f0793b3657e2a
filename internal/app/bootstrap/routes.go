// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	applicationsfeature "github.com/dalemusser/skilllink/internal/app/features/applications"
	auditlogfeature "github.com/dalemusser/skilllink/internal/app/features/auditlog"
	badgesfeature "github.com/dalemusser/skilllink/internal/app/features/badges"
	dashboardfeature "github.com/dalemusser/skilllink/internal/app/features/dashboard"
	endorsementsfeature "github.com/dalemusser/skilllink/internal/app/features/endorsements"
	gigsfeature "github.com/dalemusser/skilllink/internal/app/features/gigs"
	healthfeature "github.com/dalemusser/skilllink/internal/app/features/health"
	homefeature "github.com/dalemusser/skilllink/internal/app/features/home"
	loginfeature "github.com/dalemusser/skilllink/internal/app/features/login"
	profilefeature "github.com/dalemusser/skilllink/internal/app/features/profile"
	recordsfeature "github.com/dalemusser/skilllink/internal/app/features/records"
	"github.com/dalemusser/skilllink/internal/app/system/apperr"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so deps.Runtime is populated.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	rt := deps.Runtime
	if rt == nil || rt.Issuer == nil || rt.Metrics == nil {
		return nil, fmt.Errorf("runtime services not initialised; Startup must run before BuildHandler")
	}
	return newRouter(appCfg, deps, logger), nil
}

func newRouter(appCfg AppConfig, deps DBDeps, logger *zap.Logger) chi.Router {
	rt := deps.Runtime
	db := deps.MongoDatabase

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   appCfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: credentialsAllowed(appCfg.CORSAllowedOrigins),
		MaxAge:           300,
	}))
	r.Use(rt.Metrics.Middleware)

	// Global auth middleware: loads the bearer token's user into context when
	// present. Route groups decide whether a user is required.
	r.Use(rt.Issuer.LoadBearerUser)

	// JSON 404/405; set before mounting so subrouters inherit them.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		apperr.Write(w, r, logger, apperr.Missing("Not Found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		apperr.JSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
	})

	// Operational endpoints
	healthHandler := healthfeature.NewHandler(deps.MongoClient, rt.Cache, logger)
	healthfeature.MountRoutes(r, healthHandler)
	r.Handle("/metrics", rt.Metrics.Handler())

	homeHandler := homefeature.NewHandler(logger)
	homefeature.MountRoutes(r, homeHandler)

	// Accounts
	loginHandler := loginfeature.NewHandler(db, rt.Issuer, rt.Limiter, rt.AuditLog, rt.Metrics, logger)
	loginHandler.Stats = rt.Cache
	loginfeature.MountRoutes(r, loginHandler)

	profileHandler := profilefeature.NewHandler(db, logger)
	profilefeature.MountRoutes(r, profileHandler)

	// Marketplace
	gigsHandler := gigsfeature.NewHandler(db, rt.AuditLog, rt.Metrics, logger)
	gigsHandler.Stats = rt.Cache
	gigsfeature.MountRoutes(r, gigsHandler)

	appsHandler := applicationsfeature.NewHandler(db, rt.Metrics, logger)
	appsHandler.Stats = rt.Cache
	applicationsfeature.MountRoutes(r, appsHandler)

	// Reputation
	endorseHandler := endorsementsfeature.NewHandler(db, rt.Metrics, logger)
	endorseHandler.Stats = rt.Cache
	endorsementsfeature.MountRoutes(r, endorseHandler)

	badgesHandler := badgesfeature.NewHandler(db, rt.AuditLog, rt.Metrics, logger)
	badgesHandler.Stats = rt.Cache
	badgesfeature.MountRoutes(r, badgesHandler)

	// Admin and auxiliary data
	dashboardHandler := dashboardfeature.NewHandler(db, rt.Cache, logger)
	r.Mount("/admin", dashboardfeature.Routes(dashboardHandler))

	auditHandler := auditlogfeature.NewHandler(db, logger)
	r.Mount("/admin/audit", auditlogfeature.Routes(auditHandler))

	recordsHandler := recordsfeature.NewHandler(db, rt.AuditLog, logger)
	recordsfeature.MountRoutes(r, recordsHandler)

	return r
}

// credentialsAllowed reports whether CORS may allow credentials: only with
// an explicit origin list. Tokens travel in the Authorization header, so a
// wildcard setup never needs them.
func credentialsAllowed(origins []string) bool {
	if len(origins) == 0 {
		return false
	}
	for _, o := range origins {
		if o == "*" {
			return false
		}
	}
	return true
}
