// internal/app/terminal/app.go
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/ramaalshaban/dashboard/internal/app/system/apiclient"
	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/htmlsanitize"
	"github.com/ramaalshaban/dashboard/internal/app/system/projectcache"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"go.uber.org/zap"
)

// ErrNoToken means no token was given and none is stored.
var ErrNoToken = errors.New("not logged in: run 'dashboardctl login --token <token>'")

// App runs dashboard operations for one terminal invocation. Each run gets
// a fresh in-memory session; only the token survives between runs.
type App struct {
	Service *dashboard.Service
	Session *dashboard.Session
	Tokens  dashboard.TokenStore
	Out     io.Writer
	Log     *zap.Logger
	Timeout time.Duration
}

// New builds an App talking to the API described by cfg.
func New(cfg apiclient.Config, tokens dashboard.TokenStore, out io.Writer, logger *zap.Logger) *App {
	client := apiclient.New(cfg, logger, nil)
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = apiclient.DefaultTimeout
	}
	return &App{
		Service: dashboard.NewService(dashboard.ClientConnector(client), 0, logger, nil),
		Session: dashboard.NewSession("terminal", projectcache.NewMemory()),
		Tokens:  tokens,
		Out:     out,
		Log:     logger,
		Timeout: 3*timeout + 5*time.Second,
	}
}

func (a *App) controller(v *view) *dashboard.Controller {
	return a.Service.Controller(a.Session, a.Tokens, v)
}

// Login validates token and stores it.
func (a *App) Login(ctx context.Context, token string) error {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	v := newView(a.Log)
	if err := a.controller(v).Login(ctx, token); err != nil {
		return v.failure(err)
	}
	fmt.Fprintln(a.Out, "Logged in.")
	return nil
}

// Logout forgets the stored token.
func (a *App) Logout(ctx context.Context) error {
	a.controller(newView(a.Log)).Logout(ctx)
	fmt.Fprintln(a.Out, "Logged out.")
	return nil
}

// resume signs the session in with the stored token.
func (a *App) resume(ctx context.Context) error {
	v := newView(a.Log)
	token, ok := a.controller(v).StoredToken()
	if !ok {
		return ErrNoToken
	}
	if err := a.controller(v).Login(ctx, token); err != nil {
		return v.failure(err)
	}
	return nil
}

// Users prints every user with their project count.
func (a *App) Users(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	if err := a.resume(ctx); err != nil {
		return err
	}
	v := newView(a.Log)
	if err := a.controller(v).RefreshUsers(ctx); err != nil {
		return v.failure(err)
	}

	if len(v.users) == 0 {
		fmt.Fprintln(a.Out, "No users found.")
		return nil
	}
	tw := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCREATED\tPROJECTS")
	for _, u := range v.users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			u.ID,
			htmlsanitize.TextOr(u.Name, u.ID),
			u.CreatedAt.Display(dashboard.NoDate),
			v.count(u.ID))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "\nTotal: %d users\n", len(v.users))
	return nil
}

// Projects prints the projects of userID.
func (a *App) Projects(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	if err := a.resume(ctx); err != nil {
		return err
	}
	v := newView(a.Log)
	ctrl := a.controller(v)
	if err := ctrl.RefreshUsers(ctx); err != nil {
		return v.failure(err)
	}
	user, ok := ctrl.User(userID)
	if !ok {
		return fmt.Errorf("user %q not found", userID)
	}
	if err := ctrl.SelectUser(ctx, user); err != nil {
		return fmt.Errorf("failed to load projects: %s", v.projectErr)
	}

	name := htmlsanitize.TextOr(user.Name, user.ID)
	fmt.Fprintf(a.Out, "[%s] %s\n", user.Initial(), name)
	fmt.Fprintf(a.Out, "Member since %s\n", user.CreatedAt.Display(dashboard.NoDate))
	fmt.Fprintf(a.Out, "User ID: %s\n\n", user.ID)
	printProjects(a.Out, v.projects)
	return nil
}

func printProjects(w io.Writer, projects []models.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, "No Projects Found")
		return
	}
	for _, p := range projects {
		fmt.Fprintf(w, "%s\n", htmlsanitize.TextOr(p.Shortname, dashboard.UntitledProject))
		fmt.Fprintf(w, "  ID: %s\n", htmlsanitize.TextOr(p.ID, dashboard.NoProjectID))
		fmt.Fprintf(w, "  %s\n", htmlsanitize.TextOr(p.Description, dashboard.NoDescription))
		fmt.Fprintf(w, "  Created: %s\n", p.CreatedAt.Display(dashboard.NoDate))
	}
}
