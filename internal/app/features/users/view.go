// internal/app/features/users/view.go
package users

import (
	"context"
	"sync"

	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
)

// pageView collects what the controller reports while one request runs.
// Counts are read from the session afterwards.
type pageView struct {
	dashboard.NopView

	mu         sync.Mutex
	err        string
	users      []models.User
	rendered   bool
	projects   []models.Project
	projectErr string
}

func newPageView() *pageView {
	return &pageView{}
}

func (v *pageView) ShowError(msg string) {
	v.mu.Lock()
	v.err = msg
	v.mu.Unlock()
}

func (v *pageView) RenderUsers(users []models.User) {
	v.mu.Lock()
	v.users = users
	v.rendered = true
	v.mu.Unlock()
}

func (v *pageView) RenderProjects(_ models.User, projects []models.Project) {
	v.mu.Lock()
	v.projects = projects
	v.mu.Unlock()
}

// ShowProjectsError keeps only the message; the page offers a retry link
// that reloads the same URL.
func (v *pageView) ShowProjectsError(_ models.User, msg string, _ func(context.Context) error) {
	v.mu.Lock()
	v.projectErr = msg
	v.mu.Unlock()
}
