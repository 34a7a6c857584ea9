// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/ramaalshaban/dashboard/internal/app/resources"
	"github.com/ramaalshaban/dashboard/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after the backends are
// ready and before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	timeouts.Configure(timeouts.FromAPITimeout(appCfg.APITimeout))
	deps.Sweeper.Start()
	logger.Info("dashboard ready",
		zap.String("cache_backend", appCfg.CacheBackend),
		zap.Bool("audit_store", deps.AuditStore != nil))
	return nil
}
