// internal/app/system/projectcache/cache.go
//
// Package projectcache remembers, per dashboard session, the authoritative
// project list of every user whose projects have been loaded. Presence of a
// key means the answer is known; an entry is only ever replaced whole.
package projectcache

import (
	"context"

	"github.com/ramaalshaban/dashboard/internal/domain/models"
)

// Cache maps a user id to that user's projects.
//
// Implementations must be safe for concurrent use. Set replaces the whole
// list in one step, so readers never observe a partially written entry.
//
// Get's ok doubles as the presence check for callers that use the list. Has
// answers presence alone without decoding the entry.
type Cache interface {
	Has(ctx context.Context, userID string) (bool, error)
	Get(ctx context.Context, userID string) ([]models.Project, bool, error)
	Set(ctx context.Context, userID string, projects []models.Project) error
	Clear(ctx context.Context) error
}

// Factory builds the cache for one session namespace.
type Factory func(namespace string) Cache

// MemoryFactory returns a Factory producing independent in-process caches.
func MemoryFactory() Factory {
	return func(string) Cache { return NewMemory() }
}

func cloneProjects(in []models.Project) []models.Project {
	out := make([]models.Project, len(in))
	copy(out, in)
	return out
}
