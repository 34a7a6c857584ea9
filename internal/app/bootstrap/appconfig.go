// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (DASHBOARD_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// keeps the framework-level settings: ports, TLS, log level and format.
type AppConfig struct {
	// Remote admin API
	UsersURL            string        // GET -> [User]
	ProjectsURL         string        // GET {url}/{id}, POST {url}/batch
	APITimeout          time.Duration // per HTTP exchange
	APIRateLimit        int           // outbound requests per second, 0 = unpaced
	APIRateBurst        int
	FallbackConcurrency int // parallel per-user fetches when the batch fails

	// Session management configuration
	SessionKey           string // signs the cookie (must be strong in production)
	SessionBlockKey      string // encrypts the cookie; blank, 16, 24 or 32 bytes
	SessionName          string
	SessionDomain        string // blank means current host
	SessionMaxAge        time.Duration
	SessionIdleTimeout   time.Duration // server-side sessions idle this long are dropped
	SessionSweepInterval time.Duration

	// Project cache backend
	CacheBackend  string // "memory" or "redis"
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheRedisTTL time.Duration

	// MongoDB (optional; audit trail)
	MongoURI      string
	MongoDatabase string
	AuditLogAuth  string // "all", "db", "log" or "off"

	// Login throttling
	LoginIPLimit  int
	LoginIPWindow time.Duration
}
