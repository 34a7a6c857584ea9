// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	DefaultSessionName = "dashboard-session"

	sessionIDKey = "sid"
	tokenKey     = "bearer_token"
)

// Options configures the cookie store.
type Options struct {
	HashKey  string // signs the cookie; 32+ chars
	BlockKey string // encrypts the cookie; empty, 16, 24 or 32 bytes
	Name     string
	Domain   string
	MaxAge   time.Duration
	Secure   bool
}

// SessionManager ties the browser cookie to a dashboard.Session held in the
// registry. The cookie carries the session id and the persisted bearer
// token; everything else lives server side.
type SessionManager struct {
	store    *sessions.CookieStore
	name     string
	registry *dashboard.Registry
	log      *zap.Logger
}

// NewSessionManager validates the keys and builds the cookie store.
func NewSessionManager(opts Options, registry *dashboard.Registry, logger *zap.Logger) (*SessionManager, error) {
	if opts.HashKey == "" {
		return nil, errors.New("session key is empty; provide ≥32 random chars")
	}
	if len(opts.HashKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(opts.HashKey)))
	}
	switch len(opts.BlockKey) {
	case 0, 16, 24, 32:
	default:
		return nil, fmt.Errorf("session block key must be 16, 24 or 32 bytes, got %d", len(opts.BlockKey))
	}
	if opts.Name == "" {
		opts.Name = DefaultSessionName
	}

	keys := [][]byte{[]byte(opts.HashKey)}
	if opts.BlockKey != "" {
		keys = append(keys, []byte(opts.BlockKey))
	}
	store := sessions.NewCookieStore(keys...)
	store.Options = &sessions.Options{
		Domain:   opts.Domain,
		Path:     "/",
		MaxAge:   int(opts.MaxAge.Seconds()),
		Secure:   opts.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	store.MaxAge(store.Options.MaxAge)

	logger.Info("session store initialized",
		zap.String("name", opts.Name),
		zap.Bool("secure", opts.Secure),
		zap.Bool("encrypted", opts.BlockKey != ""),
		zap.String("domain", opts.Domain))

	return &SessionManager{store: store, name: opts.Name, registry: registry, log: logger}, nil
}

// Registry exposes the registry backing the cookies.
func (sm *SessionManager) Registry() *dashboard.Registry {
	return sm.registry
}

// GetSession returns the cookie session. On a decode error (rotated keys,
// tampering) a fresh session is returned together with the error.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

func (sm *SessionManager) cookie(r *http.Request) *sessions.Session {
	sess, err := sm.GetSession(r)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			sm.log.Warn("session cookie invalid, using fresh session", zap.Error(err))
		} else {
			sm.log.Error("session store error, using fresh session", zap.Error(err))
		}
	}
	return sess
}

/*─────────────────────────────────────────────────────────────────────────────*
| Current-session helpers                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

type ctxKey string

const currentSessionKey ctxKey = "currentSession"

// CurrentSession returns the signed-in dashboard session placed in the
// context by LoadSession.
func CurrentSession(r *http.Request) (*dashboard.Session, bool) {
	s, ok := r.Context().Value(currentSessionKey).(*dashboard.Session)
	return s, ok
}

// WithSession stores sess in the request context.
func WithSession(r *http.Request, sess *dashboard.Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentSessionKey, sess))
}

// LoadSession injects the dashboard session into the context when the
// cookie names a live, authenticated one.
func (sm *SessionManager) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := sm.lookup(r); ok && sess.Authenticated() {
			r = WithSession(r, sess)
		}
		next.ServeHTTP(w, r)
	})
}

func (sm *SessionManager) lookup(r *http.Request) (*dashboard.Session, bool) {
	id, _ := sm.cookie(r).Values[sessionIDKey].(string)
	return sm.registry.Lookup(id)
}

// RequireSignedIn ensures LoadSession found an authenticated session.
// If not signed in:
//   - HTMX: sends HX-Redirect to /login?return=...
//   - HTML: 303 redirect to /login?return=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentSession(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		RedirectToLogin(w, r)
	})
}

// RedirectToLogin sends the caller to the login page, preserving the
// current URI as the return target.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	ret := url.QueryEscape(currentURI(r))

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/login?return="+ret)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, "/login?return="+ret, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Session lifecycle                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

// Begin returns the registry session named by the cookie, opening a new one
// (and recording its id in the cookie) when there is none.
func (sm *SessionManager) Begin(w http.ResponseWriter, r *http.Request) (*dashboard.Session, error) {
	if sess, ok := sm.lookup(r); ok {
		return sess, nil
	}
	sess := sm.registry.Open()
	c := sm.cookie(r)
	c.Values[sessionIDKey] = sess.ID
	if err := c.Save(r, w); err != nil {
		sm.registry.Close(r.Context(), sess.ID)
		return nil, fmt.Errorf("save session cookie: %w", err)
	}
	return sess, nil
}

// End closes the registry session and expires the cookie.
func (sm *SessionManager) End(w http.ResponseWriter, r *http.Request) {
	c := sm.cookie(r)
	if id, _ := c.Values[sessionIDKey].(string); id != "" {
		sm.registry.Close(r.Context(), id)
	}
	c.Values = map[interface{}]interface{}{}
	c.Options.MaxAge = -1
	if err := c.Save(r, w); err != nil {
		sm.log.Warn("expire session cookie failed", zap.Error(err))
	}
}

// Tokens returns a TokenStore that keeps the bearer token in the cookie.
func (sm *SessionManager) Tokens(w http.ResponseWriter, r *http.Request) dashboard.TokenStore {
	return &cookieTokens{sm: sm, w: w, r: r}
}

type cookieTokens struct {
	sm *SessionManager
	w  http.ResponseWriter
	r  *http.Request
}

func (t *cookieTokens) LoadToken() (string, bool) {
	tok, ok := t.sm.cookie(t.r).Values[tokenKey].(string)
	return tok, ok && tok != ""
}

func (t *cookieTokens) SaveToken(token string) error {
	c := t.sm.cookie(t.r)
	c.Values[tokenKey] = token
	return c.Save(t.r, t.w)
}

func (t *cookieTokens) ClearToken() error {
	c := t.sm.cookie(t.r)
	delete(c.Values, tokenKey)
	return c.Save(t.r, t.w)
}

// helpers

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
