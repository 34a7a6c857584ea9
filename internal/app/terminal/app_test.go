package terminal_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ramaalshaban/dashboard/internal/app/system/apiclient"
	"github.com/ramaalshaban/dashboard/internal/app/terminal"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"github.com/ramaalshaban/dashboard/internal/testutil"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (*terminal.App, *testutil.AdminAPI, *bytes.Buffer, terminal.FileTokens) {
	t.Helper()
	api := testutil.NewAdminAPI(t, "good-token")
	api.Users = []models.User{{ID: "u1", Name: "ada"}, {ID: "u2", Name: "Bob"}}
	api.Projects["u1"] = []models.Project{{ID: "p1", Shortname: "alpha", Description: "first"}, {}}

	tokens := terminal.FileTokens{Path: filepath.Join(t.TempDir(), "dashboard", "token")}
	out := &bytes.Buffer{}
	app := terminal.New(apiclient.Config{
		UsersURL:    api.UsersURL(),
		ProjectsURL: api.ProjectsURL(),
		Timeout:     5 * time.Second,
	}, tokens, out, zap.NewNop())
	return app, api, out, tokens
}

func TestLogin_StoresTokenWithPrivateMode(t *testing.T) {
	app, _, out, tokens := newTestApp(t)

	if err := app.Login(context.Background(), "good-token"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !strings.Contains(out.String(), "Logged in.") {
		t.Errorf("output: %q", out.String())
	}
	tok, ok := tokens.LoadToken()
	if !ok || tok != "good-token" {
		t.Errorf("stored token: got (%q, %v)", tok, ok)
	}
	info, err := os.Stat(tokens.Path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode: got %o, want 600", perm)
	}
}

func TestLogin_RejectedToken(t *testing.T) {
	app, _, _, tokens := newTestApp(t)

	err := app.Login(context.Background(), "bad-token")

	if err == nil || !strings.Contains(err.Error(), "Invalid or expired Bearer token") {
		t.Fatalf("err: got %v", err)
	}
	if _, ok := tokens.LoadToken(); ok {
		t.Error("rejected token was stored")
	}
}

func TestUsers_RequiresStoredToken(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	if err := app.Users(context.Background()); !errors.Is(err, terminal.ErrNoToken) {
		t.Errorf("err: got %v, want ErrNoToken", err)
	}
}

func TestUsers_PrintsTable(t *testing.T) {
	app, _, out, tokens := newTestApp(t)
	if err := tokens.SaveToken("good-token"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	if err := app.Users(context.Background()); err != nil {
		t.Fatalf("Users: %v", err)
	}

	got := out.String()
	for _, want := range []string{"ID", "PROJECTS", "ada", "2 projects", "Bob", "0 projects", "No date available", "Total: 2 users"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestProjects_PrintsCardsWithFallbacks(t *testing.T) {
	app, api, out, tokens := newTestApp(t)
	if err := tokens.SaveToken("good-token"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	if err := app.Projects(context.Background(), "u1"); err != nil {
		t.Fatalf("Projects: %v", err)
	}

	got := out.String()
	for _, want := range []string{"[A] ada", "User ID: u1", "alpha", "Untitled Project", "No project ID available", "No description available"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n := api.CallCount("projects"); n != 0 {
		t.Errorf("per-user calls: got %d, want 0 (batch result cached)", n)
	}
}

func TestProjects_UnknownUser(t *testing.T) {
	app, _, _, tokens := newTestApp(t)
	if err := tokens.SaveToken("good-token"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	if err := app.Projects(context.Background(), "nobody"); err == nil {
		t.Error("expected error for unknown user")
	}
}

func TestLogout_RemovesToken(t *testing.T) {
	app, _, _, tokens := newTestApp(t)
	if err := tokens.SaveToken("good-token"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	if err := app.Logout(context.Background()); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok := tokens.LoadToken(); ok {
		t.Error("token still stored after logout")
	}
	// A second logout is harmless.
	if err := tokens.ClearToken(); err != nil {
		t.Errorf("ClearToken on missing file: %v", err)
	}
}
