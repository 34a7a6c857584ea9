package dashboard_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ramaalshaban/dashboard/internal/app/system/apiclient"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/projectcache"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"go.uber.org/zap"
)

// fakeAPI is a scripted admin API that counts calls.
type fakeAPI struct {
	mu sync.Mutex

	users      []models.User
	usersErr   error
	projects   map[string][]models.Project
	projectErr map[string]error
	batch      apiclient.BatchResult
	batchErr   error

	tokens       []string
	usersCalls   int
	projectCalls map[string]int
	batchCalls   int
	batchIDs     []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		projects:     make(map[string][]models.Project),
		projectErr:   make(map[string]error),
		projectCalls: make(map[string]int),
	}
}

func (f *fakeAPI) connector() dashboard.Connector {
	return func(token string) dashboard.API {
		f.mu.Lock()
		f.tokens = append(f.tokens, token)
		f.mu.Unlock()
		return f
	}
}

func (f *fakeAPI) FetchUsers(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usersCalls++
	if f.usersErr != nil {
		return nil, f.usersErr
	}
	return append([]models.User(nil), f.users...), nil
}

func (f *fakeAPI) FetchUserProjects(_ context.Context, userID string) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.projectCalls[userID]++
	if err := f.projectErr[userID]; err != nil {
		return nil, err
	}
	return append([]models.Project{}, f.projects[userID]...), nil
}

func (f *fakeAPI) FetchUserProjectsBatch(_ context.Context, ids []string, _ bool) (apiclient.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batchCalls++
	f.batchIDs = append([]string(nil), ids...)
	if f.batchErr != nil {
		return apiclient.BatchResult{}, f.batchErr
	}
	return f.batch, nil
}

func (f *fakeAPI) totalProjectCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.projectCalls {
		n += c
	}
	return n
}

// recordingView collects every call the core makes.
type recordingView struct {
	mu sync.Mutex

	events        []string
	counts        map[string]string
	errMsg        string
	loginErr      string
	sections      []dashboard.Section
	renderedUsers []models.User
	rendered      map[string][]models.Project
	projectsErr   string
	retry         func(context.Context) error
}

func newRecordingView() *recordingView {
	return &recordingView{
		counts:   make(map[string]string),
		rendered: make(map[string][]models.Project),
	}
}

func (v *recordingView) record(e string) {
	v.events = append(v.events, e)
}

func (v *recordingView) ShowLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("show_loading")
}

func (v *recordingView) HideLoading() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("hide_loading")
}

func (v *recordingView) ShowError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.errMsg = msg
	v.record("show_error")
}

func (v *recordingView) ShowLoginError(msg string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loginErr = msg
	v.record("login_error")
}

func (v *recordingView) RenderUsers(users []models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renderedUsers = users
	v.record("render_users")
}

func (v *recordingView) SetProjectCount(userID, label string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counts[userID] = label
}

func (v *recordingView) Navigate(s dashboard.Section) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.sections = append(v.sections, s)
	v.record("navigate:" + string(s))
}

func (v *recordingView) ShowProjectsLoading(u models.User) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.record("projects_loading:" + u.ID)
}

func (v *recordingView) RenderProjects(u models.User, projects []models.Project) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rendered[u.ID] = projects
	v.record("render_projects:" + u.ID)
}

func (v *recordingView) ShowProjectsError(u models.User, msg string, retry func(context.Context) error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.projectsErr = msg
	v.retry = retry
	v.record("projects_error:" + u.ID)
}

func (v *recordingView) count(userID string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	l, ok := v.counts[userID]
	return l, ok
}

// memTokens is an in-memory TokenStore.
type memTokens struct {
	token string
	saved bool
}

func (m *memTokens) LoadToken() (string, bool) { return m.token, m.saved }

func (m *memTokens) SaveToken(token string) error {
	m.token, m.saved = token, true
	return nil
}

func (m *memTokens) ClearToken() error {
	m.token, m.saved = "", false
	return nil
}

type fixture struct {
	api    *fakeAPI
	svc    *dashboard.Service
	sess   *dashboard.Session
	cache  *projectcache.Memory
	tokens *memTokens
	view   *recordingView
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	api := newFakeAPI()
	cache := projectcache.NewMemory()
	return &fixture{
		api:    api,
		svc:    dashboard.NewService(api.connector(), 2, zap.NewNop(), nil),
		sess:   dashboard.NewSession("test-session", cache),
		cache:  cache,
		tokens: &memTokens{},
		view:   newRecordingView(),
	}
}

func (f *fixture) controller() *dashboard.Controller {
	return f.svc.Controller(f.sess, f.tokens, f.view)
}

// signedIn logs the fixture in with a working token.
func (f *fixture) signedIn(t *testing.T) *fixture {
	t.Helper()
	if err := f.controller().Login(context.Background(), "good-token"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	f.view = newRecordingView()
	return f
}

func users(ids ...string) []models.User {
	out := make([]models.User, len(ids))
	for i, id := range ids {
		out[i] = models.User{ID: id, Name: "User " + id}
	}
	return out
}

func projects(n int) []models.Project {
	out := make([]models.Project, n)
	for i := range out {
		out[i] = models.Project{ID: fmt.Sprintf("p%d", i+1), Shortname: fmt.Sprintf("proj-%d", i+1)}
	}
	return out
}
