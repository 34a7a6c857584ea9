// internal/app/system/dashboard/service.go
package dashboard

import (
	"context"
	"errors"

	"github.com/ramaalshaban/dashboard/internal/app/system/apiclient"
	"github.com/ramaalshaban/dashboard/internal/app/system/metrics"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultFallbackConcurrency bounds per-user fetches after a batch failure.
const DefaultFallbackConcurrency = 6

var (
	ErrEmptyToken       = errors.New("dashboard: empty token")
	ErrNotAuthenticated = errors.New("dashboard: not authenticated")
)

// User-facing messages for failures that have no API classification.
const (
	MsgEmptyToken    = "Please enter a Bearer token"
	MsgLoginFailed   = "Login failed. Please try again."
	MsgUsersFailed   = "Failed to load users. Please try again."
	MsgProjectFailed = "Failed to load projects. Please try again."
)

// API is the subset of the admin API the dashboard needs.
// *apiclient.Client satisfies it.
type API interface {
	FetchUsers(ctx context.Context) ([]models.User, error)
	FetchUserProjects(ctx context.Context, userID string) ([]models.Project, error)
	FetchUserProjectsBatch(ctx context.Context, userIDs []string, includeProjects bool) (apiclient.BatchResult, error)
}

// Connector returns an API authorised with token.
type Connector func(token string) API

// ClientConnector adapts a base client into a Connector.
func ClientConnector(base *apiclient.Client) Connector {
	return func(token string) API { return base.WithToken(token) }
}

// TokenStore persists the bearer token between visits.
type TokenStore interface {
	LoadToken() (string, bool)
	SaveToken(token string) error
	ClearToken() error
}

// Service holds the long-lived collaborators shared by every Controller.
type Service struct {
	Connect             Connector
	FallbackConcurrency int
	Log                 *zap.Logger
	Metrics             metrics.Recorder
}

func NewService(connect Connector, fallbackConcurrency int, logger *zap.Logger, rec metrics.Recorder) *Service {
	if fallbackConcurrency <= 0 {
		fallbackConcurrency = DefaultFallbackConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return &Service{
		Connect:             connect,
		FallbackConcurrency: fallbackConcurrency,
		Log:                 logger,
		Metrics:             rec,
	}
}

// Controller builds a Controller for one operation on sess.
func (s *Service) Controller(sess *Session, tokens TokenStore, view View) *Controller {
	if view == nil {
		view = NopView{}
	}
	return &Controller{svc: s, sess: sess, tokens: tokens, view: view}
}

// Coordinator builds the batch coordinator for sess.
func (s *Service) Coordinator(sess *Session, api API) *Coordinator {
	return &Coordinator{
		api:         api,
		cache:       sess.Cache(),
		concurrency: s.FallbackConcurrency,
		log:         s.Log.With(zap.String("session_id", sess.ID)),
		rec:         s.Metrics,
	}
}
