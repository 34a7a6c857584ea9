// internal/app/terminal/commands.go
package terminal

import (
	"context"
	"time"
)

// CLI is the dashboardctl command line. Flags fall back to DASHBOARD_*
// environment variables, which a .env file may supply.
type CLI struct {
	UsersURL    string        `name:"users-url" env:"DASHBOARD_USERS_URL" default:"https://beta.mindbricks.com/api/user/users" help:"Admin API users endpoint"`
	ProjectsURL string        `name:"projects-url" env:"DASHBOARD_PROJECTS_URL" default:"https://beta.mindbricks.com/api/project/admin/userprojects" help:"Admin API user projects endpoint"`
	Timeout     time.Duration `name:"timeout" env:"DASHBOARD_API_TIMEOUT" default:"30s" help:"Timeout for one API request"`
	TokenFile   string        `name:"token-file" env:"DASHBOARD_TOKEN_FILE" help:"Where the bearer token is kept (default: user config dir)"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`

	Login    LoginCmd    `cmd:"" help:"Validate a bearer token and remember it"`
	Logout   LogoutCmd   `cmd:"" help:"Forget the stored token"`
	Users    UsersCmd    `cmd:"" help:"List users with their project counts"`
	Projects ProjectsCmd `cmd:"" help:"Show one user's projects"`
}

type LoginCmd struct {
	Token string `required:"" env:"DASHBOARD_TOKEN" help:"Bearer token for the admin API"`
}

func (c *LoginCmd) Run(a *App) error {
	return a.Login(context.Background(), c.Token)
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(a *App) error {
	return a.Logout(context.Background())
}

type UsersCmd struct{}

func (c *UsersCmd) Run(a *App) error {
	return a.Users(context.Background())
}

type ProjectsCmd struct {
	UserID string `arg:"" name:"user-id" help:"User whose projects to show"`
}

func (c *ProjectsCmd) Run(a *App) error {
	return a.Projects(context.Background(), c.UserID)
}
