// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/ramaalshaban/dashboard/internal/app/store/audit"
	"github.com/ramaalshaban/dashboard/internal/app/system/apiclient"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/metrics"
	"github.com/ramaalshaban/dashboard/internal/app/system/projectcache"
	"github.com/ramaalshaban/dashboard/internal/app/system/ratelimit"
	"github.com/ramaalshaban/dashboard/internal/app/system/timeouts"
	"github.com/ramaalshaban/dashboard/internal/app/system/workers"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB opens the configured backends and builds the shared state.
// Mongo and Redis are optional; a configured backend that cannot be reached
// aborts startup.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	if appCfg.MongoURI != "" {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(appCfg.MongoURI))
		if err != nil {
			return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
		err = client.Ping(pingCtx, readpref.Primary())
		cancel()
		if err != nil {
			_ = client.Disconnect(ctx)
			return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
		}
		deps.MongoClient = client
		deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
		deps.AuditStore = audit.New(deps.MongoDatabase)
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	}

	factory := projectcache.MemoryFactory()
	if appCfg.CacheBackend == CacheRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     appCfg.RedisAddr,
			Password: appCfg.RedisPassword,
			DB:       appCfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			_ = rdb.Close()
			disconnectMongo(ctx, deps, logger)
			return DBDeps{}, fmt.Errorf("ping redis: %w", err)
		}
		deps.Redis = rdb
		factory = projectcache.RedisFactory(rdb, appCfg.CacheRedisTTL)
		logger.Info("project cache on Redis", zap.String("addr", appCfg.RedisAddr))
	}

	deps.Metrics = prometheus.NewRegistry()
	deps.Metrics.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Recorder = metrics.NewPrometheusRecorder(deps.Metrics)

	deps.API = apiclient.New(apiclient.Config{
		UsersURL:    appCfg.UsersURL,
		ProjectsURL: appCfg.ProjectsURL,
		Timeout:     appCfg.APITimeout,
		RateLimit:   float64(appCfg.APIRateLimit),
		RateBurst:   appCfg.APIRateBurst,
	}, logger, deps.Recorder)

	deps.Registry = dashboard.NewRegistry(factory, logger, deps.Recorder)
	deps.Sweeper = workers.NewSessionSweep(deps.Registry, logger, appCfg.SessionSweepInterval, appCfg.SessionIdleTimeout)
	deps.Limiter = ratelimit.NewLoginLimiter(appCfg.LoginIPLimit, appCfg.LoginIPWindow)

	return deps, nil
}

// EnsureSchema creates the audit indexes when Mongo is configured.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.AuditStore == nil {
		return nil
	}
	if err := deps.AuditStore.EnsureIndexes(ctx); err != nil {
		logger.Error("audit index creation failed", zap.Error(err))
		return err
	}
	return nil
}

func disconnectMongo(ctx context.Context, deps DBDeps, logger *zap.Logger) {
	if deps.MongoClient == nil {
		return
	}
	if err := deps.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("MongoDB disconnect failed", zap.Error(err))
	}
}
