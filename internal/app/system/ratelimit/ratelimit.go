// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key in fixed windows. It is safe for
// concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
	now      func() time.Time
	stop     chan struct{}
	once     sync.Once
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per key per duration and
// starts a janitor that drops expired windows until Stop is called.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	go l.cleanupLoop(duration * 2)
	return l
}

// Allow records one request for key and reports whether it is within limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Remaining returns how many requests key may still make in its window.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || l.now().After(w.expiresAt) {
		return l.limit
	}
	if rem := l.limit - w.count; rem > 0 {
		return rem
	}
	return 0
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

// Stop ends the janitor goroutine.
func (l *Limiter) Stop() {
	l.once.Do(func() { close(l.stop) })
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, w := range l.windows {
				if now.After(w.expiresAt) {
					delete(l.windows, key)
				}
			}
			l.mu.Unlock()
		}
	}
}

// ClientIP extracts the client IP, honouring X-Forwarded-For and X-Real-IP
// before falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles token login attempts per client IP and per token
// fingerprint, so neither a single client nor a single leaked token can be
// hammered against the admin API.
type LoginLimiter struct {
	ip    *Limiter
	token *Limiter
}

// NewLoginLimiter uses ipLimit attempts per ipWindow per IP and five
// attempts per five minutes per token.
func NewLoginLimiter(ipLimit int, ipWindow time.Duration) *LoginLimiter {
	if ipLimit <= 0 {
		ipLimit = 10
	}
	if ipWindow <= 0 {
		ipWindow = time.Minute
	}
	return &LoginLimiter{
		ip:    New(ipLimit, ipWindow),
		token: New(5, 5*time.Minute),
	}
}

// Check records an attempt and returns a user-facing reason when blocked.
// fingerprint identifies the submitted token without revealing it.
func (ll *LoginLimiter) Check(r *http.Request, fingerprint string) (bool, string) {
	if !ll.ip.Allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if fingerprint != "" && !ll.token.Allow(fingerprint) {
		return false, "Too many attempts with this token. Please wait a few minutes."
	}
	return true, ""
}

// ResetToken clears the per-token count after a successful login.
func (ll *LoginLimiter) ResetToken(fingerprint string) {
	if fingerprint != "" {
		ll.token.Reset(fingerprint)
	}
}

// Stop ends both janitors.
func (ll *LoginLimiter) Stop() {
	ll.ip.Stop()
	ll.token.Stop()
}
