// internal/app/system/dashboard/view.go
package dashboard

import (
	"context"

	"github.com/ramaalshaban/dashboard/internal/domain/models"
)

// Section names a top-level area of the dashboard.
type Section string

const (
	SectionLogin        Section = "login"
	SectionUsers        Section = "users"
	SectionUserProjects Section = "user_projects"
)

// LoadingLabel is what a user's count shows until an answer arrives.
const LoadingLabel = "Loading..."

// View is the presentation contract driven by the Controller and the
// Coordinator. Calls are fire-and-forget. SetProjectCount may be called from
// several goroutines at once during a fallback load.
type View interface {
	ShowLoading()
	HideLoading()
	ShowError(msg string)
	ShowLoginError(msg string)
	RenderUsers(users []models.User)
	SetProjectCount(userID, label string)
	Navigate(section Section)
	ShowProjectsLoading(user models.User)
	RenderProjects(user models.User, projects []models.Project)
	ShowProjectsError(user models.User, msg string, retry func(context.Context) error)
}

// NopView ignores every call. Embed it to implement only part of View.
type NopView struct{}

func (NopView) ShowLoading() {}
func (NopView) HideLoading() {}
func (NopView) ShowError(string) {}
func (NopView) ShowLoginError(string) {}
func (NopView) RenderUsers([]models.User) {}
func (NopView) SetProjectCount(string, string) {}
func (NopView) Navigate(Section) {}
func (NopView) ShowProjectsLoading(models.User) {}
func (NopView) RenderProjects(models.User, []models.Project) {}
func (NopView) ShowProjectsError(models.User, string, func(context.Context) error) {}
