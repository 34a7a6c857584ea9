// internal/app/system/dashboard/registry.go
package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ramaalshaban/dashboard/internal/app/system/metrics"
	"github.com/ramaalshaban/dashboard/internal/app/system/projectcache"
	"go.uber.org/zap"
)

// Registry keeps the live Sessions of the web adapter, keyed by an opaque id
// stored in the browser's session cookie.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	factory projectcache.Factory
	log     *zap.Logger
	rec     metrics.Recorder
	now     func() time.Time
}

// NewRegistry creates an empty registry. Each session gets its own cache
// namespace from factory.
func NewRegistry(factory projectcache.Factory, logger *zap.Logger, rec metrics.Recorder) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Registry{
		sessions: make(map[string]*Session),
		factory:  factory,
		log:      logger,
		rec:      rec,
		now:      time.Now,
	}
}

// Open creates and registers a fresh session.
func (r *Registry) Open() *Session {
	id := uuid.NewString()
	sess := NewSession(id, r.factory(id))
	sess.Touch(r.now())

	r.mu.Lock()
	r.sessions[id] = sess
	n := len(r.sessions)
	r.mu.Unlock()

	r.rec.SetActiveSessions(n)
	return sess
}

// Lookup returns the session for id and marks it active.
func (r *Registry) Lookup(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	r.mu.Lock()
	sess, ok := r.sessions[id]
	r.mu.Unlock()
	if ok {
		sess.Touch(r.now())
	}
	return sess, ok
}

// Close removes the session and clears its cache. Unknown ids are ignored.
func (r *Registry) Close(ctx context.Context, id string) {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return
	}
	r.rec.SetActiveSessions(n)
	if err := sess.Cache().Clear(ctx); err != nil {
		r.log.Warn("clear session cache failed", zap.String("session_id", id), zap.Error(err))
	}
}

// Sweep closes every session idle for longer than idle and returns how many
// were closed.
func (r *Registry) Sweep(ctx context.Context, idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	var stale []string
	for id, sess := range r.sessions {
		if sess.LastSeen().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.Unlock()

	for _, id := range stale {
		r.Close(ctx, id)
	}
	return len(stale)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// SetClock replaces the time source. Tests only.
func (r *Registry) SetClock(now func() time.Time) {
	r.now = now
}
