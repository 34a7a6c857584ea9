// internal/app/system/projectcache/redis.go
package projectcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ramaalshaban/dashboard/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces every hash this package writes.
const KeyPrefix = "dashboard:projects:"

// DefaultRedisTTL reaps hashes left behind by sessions that never logged out.
const DefaultRedisTTL = 24 * time.Hour

// Redis stores one hash per namespace: field = user id, value = JSON list.
type Redis struct {
	rdb redis.UniversalClient
	key string
	ttl time.Duration
}

// NewRedis builds the cache for namespace. ttl <= 0 uses DefaultRedisTTL.
func NewRedis(rdb redis.UniversalClient, namespace string, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &Redis{rdb: rdb, key: KeyPrefix + namespace, ttl: ttl}
}

// RedisFactory returns a Factory sharing rdb across namespaces.
func RedisFactory(rdb redis.UniversalClient, ttl time.Duration) Factory {
	return func(namespace string) Cache { return NewRedis(rdb, namespace, ttl) }
}

func (c *Redis) Has(ctx context.Context, userID string) (bool, error) {
	ok, err := c.rdb.HExists(ctx, c.key, userID).Result()
	if err != nil {
		return false, fmt.Errorf("projectcache: hexists %s: %w", userID, err)
	}
	return ok, nil
}

func (c *Redis) Get(ctx context.Context, userID string) ([]models.Project, bool, error) {
	raw, err := c.rdb.HGet(ctx, c.key, userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("projectcache: hget %s: %w", userID, err)
	}
	var projects []models.Project
	if err := json.Unmarshal(raw, &projects); err != nil {
		return nil, false, fmt.Errorf("projectcache: decode %s: %w", userID, err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, true, nil
}

// Set writes the field and refreshes the hash TTL in one transaction.
func (c *Redis) Set(ctx context.Context, userID string, projects []models.Project) error {
	if projects == nil {
		projects = []models.Project{}
	}
	raw, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("projectcache: encode %s: %w", userID, err)
	}
	_, err = c.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, c.key, userID, raw)
		p.Expire(ctx, c.key, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("projectcache: hset %s: %w", userID, err)
	}
	return nil
}

func (c *Redis) Clear(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("projectcache: del %s: %w", c.key, err)
	}
	return nil
}
