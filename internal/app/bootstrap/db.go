// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/skilllink/internal/app/store/audit"
	userstore "github.com/dalemusser/skilllink/internal/app/store/users"
	"github.com/dalemusser/skilllink/internal/app/system/auditlog"
	"github.com/dalemusser/skilllink/internal/app/system/indexes"
	"github.com/dalemusser/skilllink/internal/app/system/passwords"
	"github.com/dalemusser/skilllink/internal/app/system/statscache"
	"github.com/dalemusser/skilllink/internal/app/system/timeouts"
	"github.com/dalemusser/skilllink/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// ConnectDB opens MongoDB and, when configured, Redis.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", appCfg.MongoMaxPoolSize))

	deps := DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
		Runtime:       &Runtime{},
	}

	rdb, err := statscache.Connect(ctx, appCfg.RedisAddr, appCfg.RedisPassword, appCfg.RedisDB)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, err
	}
	if rdb != nil {
		logger.Info("connected to Redis", zap.String("addr", appCfg.RedisAddr))
	}
	deps.Redis = rdb

	return deps, nil
}

// EnsureSchema reconciles indexes and collection validators, then seeds the
// operator account when admin_email is set.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	if err := validators.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("validators: %w", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		return fmt.Errorf("indexes: %w", err)
	}
	logger.Info("schema ensured", zap.String("database", db.Name()))

	if appCfg.AdminEmail == "" {
		return nil
	}
	return seedAdmin(ctx, db, appCfg.AdminEmail, appCfg.AdminPassword, newAuditLogger(appCfg, db, logger), logger)
}

// seedAdmin creates the admin account if no user owns email yet.
func seedAdmin(ctx context.Context, db *mongo.Database, email, password string, audit *auditlog.Logger, logger *zap.Logger) error {
	hash, err := passwords.Hash(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	id, created, err := userstore.New(db).EnsureAdmin(ctx, email, hash)
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if !created {
		logger.Debug("admin account already present", zap.String("email", email))
		return nil
	}
	audit.AdminSeeded(ctx, id, email)
	logger.Info("admin account created", zap.String("email", email), zap.String("user_id", id.Hex()))
	return nil
}

func newAuditLogger(appCfg AppConfig, db *mongo.Database, logger *zap.Logger) *auditlog.Logger {
	return auditlog.New(audit.New(db), logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})
}
