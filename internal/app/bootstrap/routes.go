// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	auditlogfeature "github.com/ramaalshaban/dashboard/internal/app/features/auditlog"
	errorsfeature "github.com/ramaalshaban/dashboard/internal/app/features/errors"
	healthfeature "github.com/ramaalshaban/dashboard/internal/app/features/health"
	heartbeatfeature "github.com/ramaalshaban/dashboard/internal/app/features/heartbeat"
	homefeature "github.com/ramaalshaban/dashboard/internal/app/features/home"
	loginfeature "github.com/ramaalshaban/dashboard/internal/app/features/login"
	logoutfeature "github.com/ramaalshaban/dashboard/internal/app/features/logout"
	usersfeature "github.com/ramaalshaban/dashboard/internal/app/features/users"
	"github.com/ramaalshaban/dashboard/internal/app/system/auditlog"
	"github.com/ramaalshaban/dashboard/internal/app/system/auth"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/metrics"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, backend connections, schema setup
// and Startup have completed. It boots the template engine, applies the
// session and CSRF middleware and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(auth.Options{
		HashKey:  appCfg.SessionKey,
		BlockKey: appCfg.SessionBlockKey,
		Name:     appCfg.SessionName,
		Domain:   appCfg.SessionDomain,
		MaxAge:   appCfg.SessionMaxAge,
		Secure:   secure,
	}, deps.Registry, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	errLog := errorsfeature.NewErrorLogger(logger, nil)
	auditLog := auditlog.New(deps.AuditStore, logger, appCfg.AuditLogAuth)
	svc := dashboard.NewService(dashboard.ClientConnector(deps.API), appCfg.FallbackConcurrency, logger, deps.Recorder)

	r := chi.NewRouter()

	// Machine endpoints sit outside the session and CSRF layers.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, deps.Registry, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Handle("/metrics", metrics.HTTPHandler(deps.Metrics))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	r.Group(func(pr chi.Router) {
		pr.Use(csrfMiddleware(appCfg.SessionKey, secure, logger))
		// Loads the dashboard session into the context when signed in.
		pr.Use(sessionMgr.LoadSession)

		pr.Mount("/", homefeature.Routes())

		loginHandler := loginfeature.NewHandler(sessionMgr, svc, deps.Limiter, auditLog, errLog, logger)
		pr.Mount("/login", loginfeature.Routes(loginHandler))

		logoutHandler := logoutfeature.NewHandler(sessionMgr, svc, auditLog, logger)
		pr.Mount("/logout", logoutfeature.Routes(logoutHandler))

		usersHandler := usersfeature.NewHandler(sessionMgr, svc, errLog, logger)
		pr.Mount("/users", usersfeature.Routes(usersHandler, sessionMgr))

		auditHandler := auditlogfeature.NewHandler(deps.AuditStore, errLog, logger)
		pr.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

		pr.Mount("/api/heartbeat", heartbeatfeature.Routes(heartbeatfeature.NewHandler(logger)))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errLog.NotFound(w, r, "The page you requested does not exist.", "/")
	})

	return r, nil
}
