// internal/app/features/users/list.go
package users

import (
	"errors"
	"net/http"

	"github.com/ramaalshaban/dashboard/internal/app/system/auth"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/htmlsanitize"
	"github.com/ramaalshaban/dashboard/internal/app/system/timeouts"
	"github.com/ramaalshaban/dashboard/internal/app/system/viewdata"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"go.uber.org/zap"
)

type userRow struct {
	ID       string
	Name     string
	Initial  string
	Created  string
	Projects string
}

type listData struct {
	viewdata.BaseVM
	Rows       []userRow
	Total      int
	Error      string
	RetryURL   string
	RefreshURL string
}

// refreshURL forces a reload of the list.
const refreshURL = "/users?refresh=1"

// ServeList handles GET /users. The first visit after sign-in, and any visit
// with ?refresh=1, reloads the list and resolves every project count; other
// visits render what the session already holds.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.CurrentSession(r)
	if !ok {
		auth.RedirectToLogin(w, r)
		return
	}

	if r.URL.Query().Get("refresh") == "" && sess.Listed() {
		h.renderList(w, r, sess.Users(), sess.Counts(), "")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Refresh(), h.Log, "refresh users")
	defer cancel()

	view := newPageView()
	ctrl := h.controller(w, r, sess, view)
	err := ctrl.RefreshUsers(ctx)
	if errors.Is(err, dashboard.ErrNotAuthenticated) {
		auth.RedirectToLogin(w, r)
		return
	}

	users := ctrl.Users()
	msg := ""
	if err != nil {
		// The previous list, if any, stays on screen under the error.
		h.Log.Warn("users page refresh failed", zap.String("session_id", sess.ID), zap.Error(err))
		msg = view.err
	} else if view.rendered {
		users = view.users
	}
	h.renderList(w, r, users, ctrl.ProjectCounts(), msg)
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, users []models.User, counts map[string]string, errMsg string) {
	data := listData{
		BaseVM:     viewdata.NewBaseVM(r, "Users", "/users"),
		RefreshURL: refreshURL,
	}
	if errMsg != "" {
		data.Error = errMsg
		data.RetryURL = refreshURL
	}
	data.Rows = rows(users, counts)
	data.Total = len(data.Rows)
	h.Render.Render(w, r, "users_list", data)
}

func rows(users []models.User, counts map[string]string) []userRow {
	out := make([]userRow, 0, len(users))
	for _, u := range users {
		label, ok := counts[u.ID]
		if !ok {
			label = dashboard.LoadingLabel
		}
		name := htmlsanitize.TextOr(u.Name, u.ID)
		out = append(out, userRow{
			ID:       u.ID,
			Name:     name,
			Initial:  models.User{Name: name}.Initial(),
			Created:  u.CreatedAt.Display(dashboard.NoDate),
			Projects: label,
		})
	}
	return out
}
