// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ramaalshaban/dashboard/internal/app/store/audit"
	"github.com/ramaalshaban/dashboard/internal/app/system/apiclient"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/metrics"
	"github.com/ramaalshaban/dashboard/internal/app/system/ratelimit"
	"github.com/ramaalshaban/dashboard/internal/app/system/workers"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the backends and the process-wide state shared by every
// request: the session registry, the API client and the metrics registry.
// Optional backends are nil when not configured.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
	AuditStore    *audit.Store
	Redis         redis.UniversalClient

	Metrics  *prometheus.Registry
	Recorder *metrics.PrometheusRecorder
	API      *apiclient.Client
	Registry *dashboard.Registry
	Sweeper  *workers.SessionSweep
	Limiter  *ratelimit.LoginLimiter
}
