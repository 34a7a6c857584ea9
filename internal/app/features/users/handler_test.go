package users

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/ramaalshaban/dashboard/internal/app/features/errors"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"github.com/ramaalshaban/dashboard/internal/testutil"
	"go.uber.org/zap"
)

type testEnv struct {
	api     *testutil.AdminAPI
	render  *testutil.CaptureRenderer
	router  chi.Router
	cookies []*http.Cookie
}

func newTestEnv(t *testing.T, signedIn bool) *testEnv {
	t.Helper()
	api := testutil.NewAdminAPI(t, "good-token")
	api.Users = []models.User{
		{ID: "u1", Name: "ada"},
		{ID: "u2", Name: "<b>Bob</b>"},
	}
	api.Projects["u1"] = []models.Project{{ID: "p1", Shortname: "alpha", Description: "first"}}

	hs := testutil.NewHarness(t, api)
	render := &testutil.CaptureRenderer{}
	logger := zap.NewNop()
	h := &Handler{
		Log:        logger,
		SessionMgr: hs.SessionMgr,
		Service:    hs.Service,
		ErrLog:     uierrors.NewErrorLogger(logger, render),
		Render:     render,
	}

	r := chi.NewRouter()
	r.Use(hs.SessionMgr.LoadSession)
	r.Mount("/users", Routes(h, hs.SessionMgr))

	env := &testEnv{api: api, render: render, router: r}
	if signedIn {
		_, env.cookies = hs.SignIn(t, "good-token")
	}
	return env
}

func (e *testEnv) get(path string) *testutil.ResponseRecorder {
	req := testutil.WithCookies(httptest.NewRequest(http.MethodGet, path, nil), e.cookies)
	req.Header.Set("Accept", "text/html")
	rec := testutil.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestServeList_RequiresLogin(t *testing.T) {
	env := newTestEnv(t, false)

	rec := env.get("/users")

	rec.AssertRedirect(t, "/login?return=%2Fusers")
}

func TestServeList_BatchCounts(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.get("/users")

	rec.AssertStatus(t, http.StatusOK)
	got := env.render.Last(t)
	if got.Name != "users_list" {
		t.Fatalf("template: got %q", got.Name)
	}
	data := got.Data.(listData)
	if data.Total != 2 || len(data.Rows) != 2 {
		t.Fatalf("rows: got %d (total %d), want 2", len(data.Rows), data.Total)
	}
	if data.Rows[0].Projects != "1 project" || data.Rows[1].Projects != "0 projects" {
		t.Errorf("labels: got %q, %q", data.Rows[0].Projects, data.Rows[1].Projects)
	}
	if data.Rows[0].Initial != "A" {
		t.Errorf("initial: got %q, want A", data.Rows[0].Initial)
	}
	if data.Rows[1].Name != "Bob" {
		t.Errorf("sanitised name: got %q, want Bob", data.Rows[1].Name)
	}
	if data.Rows[0].Created != "No date available" {
		t.Errorf("created: got %q", data.Rows[0].Created)
	}
	if n := env.api.CallCount("batch"); n != 1 {
		t.Errorf("batch calls: got %d, want 1", n)
	}
	if n := env.api.CallCount("projects"); n != 0 {
		t.Errorf("per-user calls: got %d, want 0", n)
	}
}

func TestServeList_FallbackWhenBatchFails(t *testing.T) {
	env := newTestEnv(t, true)
	env.api.BatchFails = true

	env.get("/users")

	data := env.render.Last(t).Data.(listData)
	if data.Rows[0].Projects != "1 project" || data.Rows[1].Projects != "0 projects" {
		t.Errorf("labels: got %q, %q", data.Rows[0].Projects, data.Rows[1].Projects)
	}
	if n := env.api.CallCount("projects"); n != 2 {
		t.Errorf("per-user calls: got %d, want 2", n)
	}
}

func TestServeList_ErrorOffersRetry(t *testing.T) {
	env := newTestEnv(t, true)
	env.api.Token = "rotated"

	rec := env.get("/users")

	rec.AssertStatus(t, http.StatusOK)
	data := env.render.Last(t).Data.(listData)
	if !strings.HasPrefix(data.Error, "Invalid or expired Bearer token") {
		t.Errorf("Error: got %q", data.Error)
	}
	if data.RetryURL != "/users?refresh=1" {
		t.Errorf("RetryURL: got %q", data.RetryURL)
	}
}

func TestServeList_RevisitRendersFromSession(t *testing.T) {
	env := newTestEnv(t, true)
	env.get("/users")
	usersBefore, batchBefore := env.api.CallCount("users"), env.api.CallCount("batch")

	rec := env.get("/users")

	rec.AssertStatus(t, http.StatusOK)
	if n := env.api.CallCount("users"); n != usersBefore {
		t.Errorf("users calls on revisit: got %d, want %d", n, usersBefore)
	}
	if n := env.api.CallCount("batch"); n != batchBefore {
		t.Errorf("batch calls on revisit: got %d, want %d", n, batchBefore)
	}
	data := env.render.Last(t).Data.(listData)
	if data.Total != 2 || data.Rows[0].Projects != "1 project" {
		t.Errorf("rows: total=%d first=%q", data.Total, data.Rows[0].Projects)
	}
	if data.RefreshURL != "/users?refresh=1" {
		t.Errorf("RefreshURL: got %q", data.RefreshURL)
	}

	env.get("/users?refresh=1")

	if n := env.api.CallCount("users"); n != usersBefore+1 {
		t.Errorf("users calls after refresh: got %d, want %d", n, usersBefore+1)
	}
	if n := env.api.CallCount("batch"); n != batchBefore+1 {
		t.Errorf("batch calls after refresh: got %d, want %d", n, batchBefore+1)
	}
}

func TestServeProjects_UsesCache(t *testing.T) {
	env := newTestEnv(t, true)
	env.get("/users")

	rec := env.get("/users/u1")

	rec.AssertStatus(t, http.StatusOK)
	got := env.render.Last(t)
	if got.Name != "user_projects" {
		t.Fatalf("template: got %q", got.Name)
	}
	data := got.Data.(projectsData)
	if len(data.Projects) != 1 || data.Projects[0].Name != "alpha" {
		t.Errorf("projects: got %+v", data.Projects)
	}
	if data.Projects[0].Created != "No date available" {
		t.Errorf("created: got %q", data.Projects[0].Created)
	}
	if n := env.api.CallCount("projects"); n != 0 {
		t.Errorf("per-user calls: got %d, want 0", n)
	}
}

func TestServeProjects_DeepLinkLoadsList(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.get("/users/u2")

	rec.AssertStatus(t, http.StatusOK)
	data := env.render.Last(t).Data.(projectsData)
	if data.UserName != "Bob" || data.Initial != "B" {
		t.Errorf("user: got %q / %q", data.UserName, data.Initial)
	}
	if len(data.Projects) != 0 || data.Error != "" {
		t.Errorf("want empty project list, got %+v (err %q)", data.Projects, data.Error)
	}
}

func TestServeProjects_FailureOffersRetry(t *testing.T) {
	env := newTestEnv(t, true)
	env.api.BatchFails = true
	env.api.ProjectStatus["u2"] = http.StatusInternalServerError
	env.get("/users")

	rec := env.get("/users/u2")

	rec.AssertStatus(t, http.StatusOK)
	data := env.render.Last(t).Data.(projectsData)
	if data.Error != "Failed to load projects: Server error. Please try again later." {
		t.Errorf("Error: got %q", data.Error)
	}
	if data.RetryURL != "/users/u2" {
		t.Errorf("RetryURL: got %q", data.RetryURL)
	}

	delete(env.api.ProjectStatus, "u2")
	env.get("/users/u2")
	if data := env.render.Last(t).Data.(projectsData); data.Error != "" {
		t.Errorf("retry still failing: %q", data.Error)
	}
}

func TestServeProjects_UnknownUser(t *testing.T) {
	env := newTestEnv(t, true)
	env.get("/users")

	rec := env.get("/users/nobody")

	rec.AssertStatus(t, http.StatusNotFound)
	if got := env.render.Last(t).Name; got != "error_page" {
		t.Errorf("template: got %q, want error_page", got)
	}
}

func TestServeCounts(t *testing.T) {
	env := newTestEnv(t, true)
	env.get("/users")

	rec := env.get("/users/counts")

	rec.AssertStatus(t, http.StatusOK)
	var counts map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &counts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if counts["u1"] != "1 project" || counts["u2"] != "0 projects" {
		t.Errorf("counts: got %v", counts)
	}
}

func TestCards_Fallbacks(t *testing.T) {
	got := cards([]models.Project{{}})
	want := projectCard{
		Name:        "Untitled Project",
		ID:          "No project ID available",
		Description: "No description available",
		Created:     "No date available",
	}
	if len(got) != 1 || got[0] != want {
		t.Errorf("cards: got %+v, want %+v", got, want)
	}
}
