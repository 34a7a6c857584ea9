package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ramaalshaban/dashboard/internal/app/system/apiclient"
	"github.com/ramaalshaban/dashboard/internal/app/system/auth"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/projectcache"
	"go.uber.org/zap"
)

// Harness wires a dashboard.Service and a SessionManager against an AdminAPI.
type Harness struct {
	API        *AdminAPI
	Service    *dashboard.Service
	SessionMgr *auth.SessionManager
	Registry   *dashboard.Registry
}

// NewHarness builds the service stack used by feature handler tests.
func NewHarness(t *testing.T, api *AdminAPI) *Harness {
	t.Helper()
	logger := zap.NewNop()
	client := apiclient.New(apiclient.Config{
		UsersURL:    api.UsersURL(),
		ProjectsURL: api.ProjectsURL(),
		Timeout:     5 * time.Second,
	}, logger, nil)

	reg := dashboard.NewRegistry(projectcache.MemoryFactory(), logger, nil)
	sm, err := auth.NewSessionManager(auth.Options{
		HashKey:  "test-session-key-must-be-32-chars-long",
		BlockKey: "0123456789abcdef0123456789abcdef",
		Name:     "test-session",
		MaxAge:   time.Hour,
	}, reg, logger)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	return &Harness{
		API:        api,
		Service:    dashboard.NewService(dashboard.ClientConnector(client), 2, logger, nil),
		SessionMgr: sm,
		Registry:   reg,
	}
}

// SignIn logs a fresh session in with token and returns the browser cookies.
func (h *Harness) SignIn(t *testing.T, token string) (*dashboard.Session, []*http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	sess, err := h.SessionMgr.Begin(rec, req)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := h.Service.Controller(sess, h.SessionMgr.Tokens(rec, req), nil).Login(req.Context(), token); err != nil {
		t.Fatalf("Login: %v", err)
	}
	return sess, rec.Result().Cookies()
}

// WithCookies adds the last cookie written for each name, as a browser keeps it.
func WithCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	latest := make(map[string]*http.Cookie)
	var order []string
	for _, c := range cookies {
		if _, seen := latest[c.Name]; !seen {
			order = append(order, c.Name)
		}
		latest[c.Name] = c
	}
	for _, name := range order {
		req.AddCookie(latest[name])
	}
	return req
}

// Rendered is one captured template render.
type Rendered struct {
	Name string
	Data any
}

// CaptureRenderer records renders instead of executing templates.
type CaptureRenderer struct {
	mu    sync.Mutex
	Calls []Rendered
}

func (c *CaptureRenderer) Render(w http.ResponseWriter, r *http.Request, name string, data any) {
	c.mu.Lock()
	c.Calls = append(c.Calls, Rendered{Name: name, Data: data})
	c.mu.Unlock()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!-- " + name + " -->"))
}

// Last returns the most recent render, failing the test when there was none.
func (c *CaptureRenderer) Last(t *testing.T) Rendered {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Calls) == 0 {
		t.Fatal("nothing was rendered")
	}
	return c.Calls[len(c.Calls)-1]
}
