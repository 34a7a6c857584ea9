// internal/app/system/dashboard/controller.go
package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/ramaalshaban/dashboard/internal/app/system/apiclient"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"go.uber.org/zap"
)

// Controller sequences one dashboard operation: it talks to the API, updates
// the Session and its cache, and reports to the View. Controllers are cheap;
// build one per request with Service.Controller.
type Controller struct {
	svc    *Service
	sess   *Session
	tokens TokenStore
	view   View
}

// Login validates token with one users request. On success the session is
// signed in and the token persisted. On failure nothing changes. Signing in
// with a different token drops everything loaded under the previous one.
func (c *Controller) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		c.view.ShowLoginError(MsgEmptyToken)
		return ErrEmptyToken
	}

	if _, err := c.svc.Connect(token).FetchUsers(ctx); err != nil {
		c.svc.Log.Info("login probe rejected", zap.String("session_id", c.sess.ID), zap.Error(err))
		c.view.ShowLoginError(apiclient.Message(err, MsgLoginFailed))
		return fmt.Errorf("login probe: %w", err)
	}

	if prev := c.sess.Token(); prev != "" && prev != token {
		c.sess.reset()
		c.clearCache(ctx)
	}
	c.sess.signIn(token)
	if c.tokens != nil {
		if err := c.tokens.SaveToken(token); err != nil {
			c.svc.Log.Warn("persist token failed", zap.String("session_id", c.sess.ID), zap.Error(err))
		}
	}
	c.view.Navigate(SectionUsers)
	return nil
}

// Logout forgets the token, the user list, the selection and every cached
// project list, then returns to the login section.
func (c *Controller) Logout(ctx context.Context) {
	c.sess.reset()
	c.clearCache(ctx)
	if c.tokens != nil {
		if err := c.tokens.ClearToken(); err != nil {
			c.svc.Log.Warn("clear token failed", zap.String("session_id", c.sess.ID), zap.Error(err))
		}
	}
	c.view.Navigate(SectionLogin)
}

func (c *Controller) clearCache(ctx context.Context) {
	if err := c.sess.Cache().Clear(ctx); err != nil {
		c.svc.Log.Warn("clear project cache failed", zap.String("session_id", c.sess.ID), zap.Error(err))
	}
}

// RefreshUsers reloads the user list and resolves every project count.
// Concurrent refreshes are not serialised; the last completed one wins.
func (c *Controller) RefreshUsers(ctx context.Context) error {
	token := c.sess.Token()
	if !c.sess.Authenticated() || token == "" {
		return ErrNotAuthenticated
	}

	c.view.ShowLoading()
	defer c.view.HideLoading()

	api := c.svc.Connect(token)
	users, err := api.FetchUsers(ctx)
	if err != nil {
		c.svc.Log.Warn("load users failed", zap.String("session_id", c.sess.ID), zap.Error(err))
		c.view.ShowError(apiclient.Message(err, MsgUsersFailed))
		return fmt.Errorf("refresh users: %w", err)
	}

	c.sess.setUsers(users)
	c.view.RenderUsers(users)
	c.svc.Coordinator(c.sess, api).LoadAll(ctx, users, countingView{View: c.view, sess: c.sess})
	return nil
}

// SelectUser shows user's projects, from the cache when known.
func (c *Controller) SelectUser(ctx context.Context, user models.User) error {
	token := c.sess.Token()
	if !c.sess.Authenticated() || token == "" {
		return ErrNotAuthenticated
	}

	c.sess.setSelected(user.ID)
	c.view.Navigate(SectionUserProjects)

	api := c.svc.Connect(token)
	coord := c.svc.Coordinator(c.sess, api)
	if projects, ok := coord.lookup(ctx, user.ID); ok {
		c.view.RenderProjects(user, projects)
		return nil
	}

	c.view.ShowProjectsLoading(user)
	projects, err := api.FetchUserProjects(ctx, user.ID)
	if err != nil {
		c.svc.Log.Warn("load user projects failed",
			zap.String("session_id", c.sess.ID),
			zap.String("user_id", user.ID),
			zap.Error(err))
		retry := func(ctx context.Context) error { return c.SelectUser(ctx, user) }
		c.view.ShowProjectsError(user, apiclient.Message(err, MsgProjectFailed), retry)
		return fmt.Errorf("select user %s: %w", user.ID, err)
	}

	coord.store(ctx, user.ID, projects)
	if projects == nil {
		projects = []models.Project{}
	}
	c.view.RenderProjects(user, projects)
	return nil
}

// StoredToken returns the persisted token, if any. It is used to prefill the
// login form; it never signs the session in.
func (c *Controller) StoredToken() (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	return c.tokens.LoadToken()
}

func (c *Controller) Authenticated() bool { return c.sess.Authenticated() }

func (c *Controller) Users() []models.User { return c.sess.Users() }

// ProjectCounts returns the current count label per listed user.
func (c *Controller) ProjectCounts() map[string]string { return c.sess.Counts() }

func (c *Controller) User(id string) (models.User, bool) { return c.sess.User(id) }

// countingView remembers every label it forwards so later requests can read
// the counts without recomputing them.
type countingView struct {
	View
	sess *Session
}

func (v countingView) SetProjectCount(userID, label string) {
	v.sess.setCount(userID, label)
	v.View.SetProjectCount(userID, label)
}
