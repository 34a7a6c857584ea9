package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ramaalshaban/dashboard/internal/app/features/logout"
	"github.com/ramaalshaban/dashboard/internal/app/system/auditlog"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"github.com/ramaalshaban/dashboard/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*logout.Handler, *testutil.Harness) {
	t.Helper()
	hs := testutil.NewHarness(t, testutil.NewAdminAPI(t, "good-token"))
	logger := zap.NewNop()
	return logout.NewHandler(hs.SessionMgr, hs.Service, auditlog.New(nil, logger, auditlog.ModeOff), logger), hs
}

func TestServeLogout_SignedIn(t *testing.T) {
	h, hs := newTestHandler(t)
	sess, cookies := hs.SignIn(t, "good-token")
	if err := sess.Cache().Set(t.Context(), "u1", []models.Project{{ID: "p1"}}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	req := testutil.WithCookies(httptest.NewRequest(http.MethodPost, "/logout", nil), cookies)
	rec := testutil.NewRecorder()
	h.SessionMgr.LoadSession(http.HandlerFunc(h.ServeLogout)).ServeHTTP(rec, req)

	rec.AssertRedirect(t, "/login")
	if sess.Authenticated() {
		t.Error("session still authenticated after logout")
	}
	if ok, _ := sess.Cache().Has(t.Context(), "u1"); ok {
		t.Error("project cache not cleared")
	}
	if hs.Registry.Len() != 0 {
		t.Errorf("registry sessions: got %d, want 0", hs.Registry.Len())
	}
}

func TestServeLogout_Anonymous(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := testutil.NewRecorder()
	h.SessionMgr.LoadSession(http.HandlerFunc(h.ServeLogout)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

	rec.AssertRedirect(t, "/login")
}

func TestServeLogout_HTMX(t *testing.T) {
	h, hs := newTestHandler(t)
	_, cookies := hs.SignIn(t, "good-token")

	req := testutil.WithCookies(httptest.NewRequest(http.MethodPost, "/logout", nil), cookies)
	req.Header.Set("HX-Request", "true")
	rec := testutil.NewRecorder()
	h.SessionMgr.LoadSession(http.HandlerFunc(h.ServeLogout)).ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if got := rec.Header().Get("HX-Redirect"); got != "/login" {
		t.Errorf("HX-Redirect: got %q, want /login", got)
	}
}
