// internal/app/system/workers/sessionsweep.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"go.uber.org/zap"
)

// SessionSweep is a background worker that closes dashboard sessions idle
// for longer than the configured threshold, releasing their project caches.
type SessionSweep struct {
	registry *dashboard.Registry
	log      *zap.Logger
	interval time.Duration
	idle     time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewSessionSweep creates the worker. interval is how often to sweep; idle
// is how long a session may go untouched before it is closed.
func NewSessionSweep(registry *dashboard.Registry, logger *zap.Logger, interval, idle time.Duration) *SessionSweep {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if idle <= 0 {
		idle = 2 * time.Hour
	}
	return &SessionSweep{
		registry: registry,
		log:      logger,
		interval: interval,
		idle:     idle,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the sweep loop.
func (w *SessionSweep) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("session sweep worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle_timeout", w.idle))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *SessionSweep) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("session sweep worker stopped")
}

func (w *SessionSweep) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// Sweep runs one pass immediately.
func (w *SessionSweep) Sweep() int {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n := w.registry.Sweep(ctx, w.idle)
	if n > 0 {
		w.log.Info("closed idle sessions",
			zap.Int("count", n),
			zap.Int("remaining", w.registry.Len()))
	}
	return n
}
