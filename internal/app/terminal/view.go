// internal/app/terminal/view.go
package terminal

import (
	"context"
	"errors"
	"sync"

	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"go.uber.org/zap"
)

// view buffers what the controller reports; commands print it once the
// operation returns so counts resolved concurrently end up in one table.
type view struct {
	log *zap.Logger

	mu         sync.Mutex
	err        string
	users      []models.User
	counts     map[string]string
	projects   []models.Project
	projectErr string
}

func newView(log *zap.Logger) *view {
	return &view{log: log, counts: make(map[string]string)}
}

func (v *view) ShowLoading() { v.log.Debug(dashboard.LoadingLabel) }
func (v *view) HideLoading() {}

func (v *view) ShowError(msg string)      { v.setErr(msg) }
func (v *view) ShowLoginError(msg string) { v.setErr(msg) }

func (v *view) setErr(msg string) {
	v.mu.Lock()
	v.err = msg
	v.mu.Unlock()
}

func (v *view) RenderUsers(users []models.User) {
	v.mu.Lock()
	v.users = users
	v.mu.Unlock()
}

func (v *view) SetProjectCount(userID, label string) {
	v.mu.Lock()
	v.counts[userID] = label
	v.mu.Unlock()
}

func (v *view) Navigate(s dashboard.Section) {
	v.log.Debug("navigate", zap.String("section", string(s)))
}

func (v *view) ShowProjectsLoading(u models.User) {
	v.log.Debug("loading projects", zap.String("user_id", u.ID))
}

func (v *view) RenderProjects(_ models.User, projects []models.Project) {
	v.mu.Lock()
	v.projects = projects
	v.mu.Unlock()
}

func (v *view) ShowProjectsError(_ models.User, msg string, _ func(context.Context) error) {
	v.mu.Lock()
	v.projectErr = msg
	v.mu.Unlock()
}

func (v *view) count(userID string) string {
	v.mu.Lock()
	defer v.mu.Unlock()
	if l, ok := v.counts[userID]; ok {
		return l
	}
	return dashboard.LoadingLabel
}

// failure prefers the message the controller showed over the wrapped error.
func (v *view) failure(err error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.err != "" {
		return errors.New(v.err)
	}
	return err
}
