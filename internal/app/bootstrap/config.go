// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/ramaalshaban/dashboard/internal/app/system/projectcache"
	"go.uber.org/zap"
)

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// appConfigKeys defines the configuration keys for the dashboard.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: users_url, session_name, etc.
//   - Environment variables: DASHBOARD_USERS_URL, DASHBOARD_SESSION_NAME, etc.
//   - Command-line flags: --users_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "users_url", Default: "https://beta.mindbricks.com/api/user/users", Desc: "Admin API users endpoint"},
	{Name: "projects_url", Default: "https://beta.mindbricks.com/api/project/admin/userprojects", Desc: "Admin API user projects endpoint"},
	{Name: "api_timeout", Default: "30s", Desc: "Timeout for one admin API request"},
	{Name: "api_rate_limit", Default: 0, Desc: "Outbound admin API requests per second (0 disables pacing)"},
	{Name: "api_rate_burst", Default: 10, Desc: "Burst allowance for api_rate_limit"},
	{Name: "fallback_concurrency", Default: 6, Desc: "Parallel per-user project fetches when the batch call fails"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_block_key", Default: "", Desc: "Session encryption key: blank, 16, 24 or 32 bytes"},
	{Name: "session_name", Default: "dashboard-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Session cookie lifetime"},
	{Name: "session_idle_timeout", Default: "2h", Desc: "Drop server-side sessions idle this long"},
	{Name: "session_sweep_interval", Default: "5m", Desc: "How often idle sessions are swept"},

	{Name: "cache_backend", Default: CacheMemory, Desc: "Project cache backend: 'memory' or 'redis'"},
	{Name: "redis_addr", Default: "localhost:6379", Desc: "Redis address (cache_backend=redis)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "cache_redis_ttl", Default: "24h", Desc: "Safety expiry for Redis cache entries"},

	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI (blank disables the audit store)"},
	{Name: "mongo_database", Default: "dashboard", Desc: "MongoDB database name"},
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	{Name: "login_ip_limit", Default: 10, Desc: "Login attempts allowed per IP per window"},
	{Name: "login_ip_window", Default: "1m", Desc: "Login attempt window per IP"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges flags > env > files > defaults,
// reading WAFFLE_* for core settings and DASHBOARD_* for the keys above.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DASHBOARD", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		UsersURL:            appValues.String("users_url"),
		ProjectsURL:         appValues.String("projects_url"),
		APITimeout:          appValues.Duration("api_timeout", 30*time.Second),
		APIRateLimit:        appValues.Int("api_rate_limit"),
		APIRateBurst:        appValues.Int("api_rate_burst"),
		FallbackConcurrency: appValues.Int("fallback_concurrency"),

		SessionKey:           appValues.String("session_key"),
		SessionBlockKey:      appValues.String("session_block_key"),
		SessionName:          appValues.String("session_name"),
		SessionDomain:        appValues.String("session_domain"),
		SessionMaxAge:        appValues.Duration("session_max_age", 30*24*time.Hour),
		SessionIdleTimeout:   appValues.Duration("session_idle_timeout", 2*time.Hour),
		SessionSweepInterval: appValues.Duration("session_sweep_interval", 5*time.Minute),

		CacheBackend:  appValues.String("cache_backend"),
		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),
		CacheRedisTTL: appValues.Duration("cache_redis_ttl", projectcache.DefaultRedisTTL),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		AuditLogAuth:  appValues.String("audit_log_auth"),

		LoginIPLimit:  appValues.Int("login_ip_limit"),
		LoginIPWindow: appValues.Duration("login_ip_window", time.Minute),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	for key, raw := range map[string]string{"users_url": appCfg.UsersURL, "projects_url": appCfg.ProjectsURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", key, raw)
		}
	}

	switch appCfg.CacheBackend {
	case CacheMemory:
	case CacheRedis:
		if appCfg.RedisAddr == "" {
			return fmt.Errorf("cache_backend=redis requires redis_addr")
		}
	default:
		return fmt.Errorf("cache_backend must be %q or %q, got %q", CacheMemory, CacheRedis, appCfg.CacheBackend)
	}

	if appCfg.MongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	}

	if coreCfg != nil && coreCfg.Env == "prod" && len(appCfg.SessionKey) < 32 {
		return fmt.Errorf("session_key must be at least 32 characters in prod")
	}
	return nil
}
