// internal/app/features/users/projects.go
package users

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ramaalshaban/dashboard/internal/app/system/auth"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/htmlsanitize"
	"github.com/ramaalshaban/dashboard/internal/app/system/timeouts"
	"github.com/ramaalshaban/dashboard/internal/app/system/viewdata"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"go.uber.org/zap"
)

type projectCard struct {
	Name        string
	ID          string
	Description string
	Created     string
}

type projectsData struct {
	viewdata.BaseVM
	UserID      string
	UserName    string
	Initial     string
	MemberSince string
	Projects    []projectCard
	Error       string
	RetryURL    string
}

// ServeProjects handles GET /users/{id}. Cached projects render without a
// request; a failed fetch leaves nothing cached, so reloading retries.
func (h *Handler) ServeProjects(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.CurrentSession(r)
	if !ok {
		auth.RedirectToLogin(w, r)
		return
	}
	id := chi.URLParam(r, "id")

	user, found := sess.User(id)
	if !found && !sess.Listed() {
		// Deep link straight after login: load the list first.
		ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Refresh(), h.Log, "refresh users")
		err := h.controller(w, r, sess, nil).RefreshUsers(ctx)
		cancel()
		if errors.Is(err, dashboard.ErrNotAuthenticated) {
			auth.RedirectToLogin(w, r)
			return
		}
		if err != nil {
			h.ErrLog.Log(r, "load users for detail page failed", err, zap.String("user_id", id))
		}
		user, found = sess.User(id)
	}
	if !found {
		h.ErrLog.NotFound(w, r, "User not found.", "/users")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Projects(), h.Log, "user projects")
	defer cancel()

	view := newPageView()
	err := h.controller(w, r, sess, view).SelectUser(ctx, user)
	if errors.Is(err, dashboard.ErrNotAuthenticated) {
		auth.RedirectToLogin(w, r)
		return
	}

	name := htmlsanitize.TextOr(user.Name, user.ID)
	data := projectsData{
		BaseVM:      viewdata.NewBaseVM(r, name, "/users"),
		UserID:      user.ID,
		UserName:    name,
		Initial:     models.User{Name: name}.Initial(),
		MemberSince: user.CreatedAt.Display(dashboard.NoDate),
	}
	if err != nil {
		data.Error = "Failed to load projects: " + view.projectErr
		data.RetryURL = r.URL.Path
	} else {
		data.Projects = cards(view.projects)
	}
	h.Render.Render(w, r, "user_projects", data)
}

func cards(projects []models.Project) []projectCard {
	out := make([]projectCard, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectCard{
			Name:        htmlsanitize.TextOr(p.Shortname, dashboard.UntitledProject),
			ID:          htmlsanitize.TextOr(p.ID, dashboard.NoProjectID),
			Description: htmlsanitize.TextOr(p.Description, dashboard.NoDescription),
			Created:     p.CreatedAt.Display(dashboard.NoDate),
		})
	}
	return out
}
