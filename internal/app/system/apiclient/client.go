// internal/app/system/apiclient/client.go
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ramaalshaban/dashboard/internal/app/system/metrics"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Endpoint names used in logs and metrics.
const (
	OpUsers        = "users"
	OpUserProjects = "user_projects"
	OpBatch        = "user_projects_batch"
)

// DefaultTimeout bounds a single HTTP exchange when Config.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Config describes where the remote admin API lives.
type Config struct {
	UsersURL    string // GET -> [User]
	ProjectsURL string // GET {ProjectsURL}/{id}, POST {ProjectsURL}/batch
	Timeout     time.Duration

	// RateLimit paces outbound requests (per second) across every session
	// sharing this client. Zero disables pacing.
	RateLimit float64
	RateBurst int

	// Base is the underlying transport; nil means http.DefaultTransport.
	Base http.RoundTripper
}

// BatchResult is the decoded batch response keyed by user id.
type BatchResult struct {
	Results map[string]models.UserProjects
}

// Client performs calls against the admin API. A Client returned by New is
// unauthenticated; WithToken derives one that attaches a bearer token to
// every request. Clients are safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
	rec     metrics.Recorder
}

// New builds a Client. A nil recorder disables metrics.
func New(cfg Config, logger *zap.Logger, rec metrics.Recorder) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	cfg.UsersURL = strings.TrimRight(cfg.UsersURL, "/")
	cfg.ProjectsURL = strings.TrimRight(cfg.ProjectsURL, "/")
	if logger == nil {
		logger = zap.NewNop()
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout, Transport: cfg.Base},
		limiter: limiter,
		log:     logger,
		rec:     rec,
	}
}

// WithToken returns a copy of c whose requests carry
// "Authorization: Bearer <token>". The limiter and recorder are shared.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.http = &http.Client{
		Timeout: c.cfg.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   c.cfg.Base,
		},
	}
	return &cp
}

// FetchUsers lists every user account.
func (c *Client) FetchUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, OpUsers, http.MethodGet, c.cfg.UsersURL, nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// FetchUserProjects returns the projects owned by userID.
func (c *Client) FetchUserProjects(ctx context.Context, userID string) ([]models.Project, error) {
	var body struct {
		Projects []models.Project `json:"projects"`
	}
	endpoint := c.cfg.ProjectsURL + "/" + url.PathEscape(userID)
	if err := c.do(ctx, OpUserProjects, http.MethodGet, endpoint, nil, &body); err != nil {
		return nil, err
	}
	if body.Projects == nil {
		return []models.Project{}, nil
	}
	return body.Projects, nil
}

type batchRequest struct {
	UserIDs         []string `json:"userIds"`
	IncludeProjects bool     `json:"includeProjects"`
}

type batchResponse struct {
	Results map[string]*models.UserProjects `json:"results"`
}

// FetchUserProjectsBatch resolves projects for many users in one request.
// A response without a "results" object is reported as KindMalformed.
func (c *Client) FetchUserProjectsBatch(ctx context.Context, userIDs []string, includeProjects bool) (BatchResult, error) {
	if userIDs == nil {
		userIDs = []string{}
	}
	req := batchRequest{UserIDs: userIDs, IncludeProjects: includeProjects}

	var body batchResponse
	if err := c.do(ctx, OpBatch, http.MethodPost, c.cfg.ProjectsURL+"/batch", req, &body); err != nil {
		return BatchResult{}, err
	}
	if body.Results == nil {
		err := malformedError(OpBatch, errors.New(`missing "results"`))
		c.log.Warn("api call returned malformed payload", zap.String("endpoint", OpBatch), zap.Error(err.Err))
		return BatchResult{}, err
	}

	out := BatchResult{Results: make(map[string]models.UserProjects, len(body.Results))}
	for id, entry := range body.Results {
		var up models.UserProjects
		if entry != nil {
			up = *entry
		}
		if up.Projects == nil {
			up.Projects = []models.Project{}
		}
		out.Results[id] = up
	}
	return out, nil
}

// do sends one request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, op, method, endpoint string, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return networkError(op, err)
		}
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.rec.ObserveAPICall(op, time.Since(start), KindNetwork.String())
		c.log.Warn("api call failed", zap.String("endpoint", op), zap.Error(err))
		return networkError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a bounded amount so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		apiErr := StatusError(op, resp.StatusCode)
		c.rec.ObserveAPICall(op, time.Since(start), apiErr.Kind.String())
		c.log.Warn("api call rejected",
			zap.String("endpoint", op),
			zap.Int("status", resp.StatusCode),
			zap.String("kind", apiErr.Kind.String()))
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.rec.ObserveAPICall(op, time.Since(start), KindMalformed.String())
		c.log.Warn("api call returned malformed payload", zap.String("endpoint", op), zap.Error(err))
		return malformedError(op, err)
	}

	c.rec.ObserveAPICall(op, time.Since(start), "success")
	c.log.Debug("api call ok",
		zap.String("endpoint", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	return nil
}
