package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ramaalshaban/dashboard/internal/domain/models"
)

// AdminAPI is an in-process stand-in for the remote admin API. It serves the
// users, per-user projects and batch endpoints under the same paths as the
// real deployment and accepts only Token.
type AdminAPI struct {
	*httptest.Server

	mu            sync.Mutex
	Token         string
	Users         []models.User
	Projects      map[string][]models.Project
	BatchFails    bool
	// ProjectStatus makes the per-user endpoint answer with the given
	// status for that user instead of its projects.
	ProjectStatus map[string]int
	Calls         map[string]int
}

// NewAdminAPI starts the server; it is closed when the test ends.
func NewAdminAPI(t *testing.T, token string) *AdminAPI {
	t.Helper()
	a := &AdminAPI{
		Token:         token,
		Projects:      make(map[string][]models.Project),
		ProjectStatus: make(map[string]int),
		Calls:         make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/users", a.users)
	mux.HandleFunc("/api/project/admin/userprojects/", a.projects)
	a.Server = httptest.NewServer(mux)
	t.Cleanup(a.Server.Close)
	return a
}

func (a *AdminAPI) UsersURL() string    { return a.URL + "/api/user/users" }
func (a *AdminAPI) ProjectsURL() string { return a.URL + "/api/project/admin/userprojects" }

// CallCount returns how many requests hit endpoint ("users", "projects", "batch").
func (a *AdminAPI) CallCount(endpoint string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.Calls[endpoint]
}

func (a *AdminAPI) authorised(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer "+a.Token {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	return true
}

func (a *AdminAPI) users(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.Calls["users"]++
	users := a.Users
	a.mu.Unlock()

	if !a.authorised(w, r) {
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, users)
}

func (a *AdminAPI) projects(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/project/admin/userprojects/")
	endpoint := "projects"
	if id == "batch" && r.Method == http.MethodPost {
		endpoint = "batch"
	}

	a.mu.Lock()
	a.Calls[endpoint]++
	fails := a.BatchFails
	a.mu.Unlock()

	if !a.authorised(w, r) {
		return
	}

	if endpoint == "batch" {
		if fails {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var body struct {
			UserIDs []string `json:"userIds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		results := make(map[string]models.UserProjects, len(body.UserIDs))
		a.mu.Lock()
		for _, uid := range body.UserIDs {
			ps := a.Projects[uid]
			results[uid] = models.UserProjects{Projects: ps, ProjectCount: len(ps)}
		}
		a.mu.Unlock()
		writeJSON(w, map[string]any{"results": results})
		return
	}

	a.mu.Lock()
	ps := a.Projects[id]
	status := a.ProjectStatus[id]
	a.mu.Unlock()
	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if ps == nil {
		ps = []models.Project{}
	}
	writeJSON(w, map[string]any{"projects": ps})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
