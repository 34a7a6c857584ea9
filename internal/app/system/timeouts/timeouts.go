// Package timeouts holds the per-request budgets the web adapter places
// around dashboard operations.
//
// The API client carries its own per-exchange timeout (api_timeout); these
// budgets bound a whole handler step, which may span several exchanges:
//   - Ping: health checks against Mongo and Redis
//   - Probe: the single users request that validates a login token
//   - Projects: one user's project list, cache-first
//   - Refresh: the user list plus the batch load, including any fallback
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing     = 2 * time.Second
	DefaultProbe    = 15 * time.Second
	DefaultProjects = 30 * time.Second
	DefaultRefresh  = 90 * time.Second
)

var (
	mu       sync.RWMutex
	ping     = DefaultPing
	probe    = DefaultProbe
	projects = DefaultProjects
	refresh  = DefaultRefresh
)

func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

func Probe() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return probe
}

func Projects() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return projects
}

func Refresh() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return refresh
}

// Config holds budget overrides. Zero values keep the current setting.
type Config struct {
	Ping     time.Duration
	Probe    time.Duration
	Projects time.Duration
	Refresh  time.Duration
}

// Configure applies cfg. Call it during startup, before handlers run.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Probe > 0 {
		probe = cfg.Probe
	}
	if cfg.Projects > 0 {
		projects = cfg.Projects
	}
	if cfg.Refresh > 0 {
		refresh = cfg.Refresh
	}
}

// FromAPITimeout derives budgets from the per-exchange client timeout so a
// handler never gives up before the client does.
func FromAPITimeout(api time.Duration) Config {
	if api <= 0 {
		return Config{}
	}
	return Config{
		Probe:    api + 5*time.Second,
		Projects: api + 5*time.Second,
		Refresh:  3*api + 5*time.Second,
	}
}

// Reset restores the defaults. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping, probe, projects, refresh = DefaultPing, DefaultProbe, DefaultProjects, DefaultRefresh
}

func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Probe: probe, Projects: projects, Refresh: refresh}
}

// WithTimeout wraps context.WithTimeout; the returned cancel logs a warning
// when the deadline was hit.
//
//	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Refresh(), h.Log, "refresh users")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
