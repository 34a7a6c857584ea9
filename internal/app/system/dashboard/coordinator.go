// internal/app/system/dashboard/coordinator.go
package dashboard

import (
	"context"

	"github.com/ramaalshaban/dashboard/internal/app/system/metrics"
	"github.com/ramaalshaban/dashboard/internal/app/system/projectcache"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Coordinator fills a session's project cache for a set of users with one
// batch request, falling back to one request per user when the batch fails.
type Coordinator struct {
	api         API
	cache       projectcache.Cache
	concurrency int
	log         *zap.Logger
	rec         metrics.Recorder
}

// LoadAll never fails. On batch success, every user present in the results
// is cached and labelled from the reported projectCount; users the batch
// omits are left untouched. On batch failure each user is resolved on its
// own, and a user whose fetch fails shows "0 projects" with nothing cached.
// LoadAll returns after every fallback fetch has finished.
func (c *Coordinator) LoadAll(ctx context.Context, users []models.User, view View) {
	if len(users) == 0 {
		return
	}
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}

	res, err := c.api.FetchUserProjectsBatch(ctx, ids, true)
	if err == nil {
		c.rec.IncBatchLoad(metrics.ModeBatch)
		for id, up := range res.Results {
			c.store(ctx, id, up.Projects)
			view.SetProjectCount(id, CountLabel(up.ProjectCount))
		}
		return
	}

	c.log.Warn("batch project load failed, falling back to per-user fetches",
		zap.Int("users", len(ids)), zap.Error(err))
	c.rec.IncBatchLoad(metrics.ModeFallback)
	c.fallback(ctx, ids, view)
}

func (c *Coordinator) fallback(ctx context.Context, ids []string, view View) {
	// The group context is not used: one user's failure must not cancel the others.
	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			view.SetProjectCount(id, CountLabel(c.count(ctx, id)))
			return nil
		})
	}
	_ = g.Wait()
}

// count resolves one user's project count, preferring the cache.
func (c *Coordinator) count(ctx context.Context, userID string) int {
	if projects, ok := c.lookup(ctx, userID); ok {
		return len(projects)
	}
	projects, err := c.api.FetchUserProjects(ctx, userID)
	if err != nil {
		c.rec.IncFallbackFetch(false)
		c.log.Warn("fallback project fetch failed", zap.String("user_id", userID), zap.Error(err))
		return 0
	}
	c.rec.IncFallbackFetch(true)
	c.store(ctx, userID, projects)
	return len(projects)
}

// lookup treats backend errors as a miss.
func (c *Coordinator) lookup(ctx context.Context, userID string) ([]models.Project, bool) {
	projects, ok, err := c.cache.Get(ctx, userID)
	if err != nil {
		c.log.Warn("project cache read failed", zap.String("user_id", userID), zap.Error(err))
		ok = false
	}
	c.rec.IncCacheLookup(ok)
	return projects, ok
}

func (c *Coordinator) store(ctx context.Context, userID string, projects []models.Project) {
	if projects == nil {
		projects = []models.Project{}
	}
	if err := c.cache.Set(ctx, userID, projects); err != nil {
		c.log.Warn("project cache write failed", zap.String("user_id", userID), zap.Error(err))
	}
}
