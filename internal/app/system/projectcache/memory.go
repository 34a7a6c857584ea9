// internal/app/system/projectcache/memory.go
package projectcache

import (
	"context"
	"sync"

	"github.com/ramaalshaban/dashboard/internal/domain/models"
)

// Memory is an in-process Cache. It never fails.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]models.Project
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]models.Project)}
}

func (m *Memory) Has(_ context.Context, userID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.entries[userID]
	return ok, nil
}

// Get returns a copy of the stored list.
func (m *Memory) Get(_ context.Context, userID string) ([]models.Project, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	projects, ok := m.entries[userID]
	if !ok {
		return nil, false, nil
	}
	return cloneProjects(projects), true, nil
}

// Set stores a copy of projects; nil is stored as an empty list.
func (m *Memory) Set(_ context.Context, userID string, projects []models.Project) error {
	stored := cloneProjects(projects)
	m.mu.Lock()
	m.entries[userID] = stored
	m.mu.Unlock()
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	m.entries = make(map[string][]models.Project)
	m.mu.Unlock()
	return nil
}

// Len reports the number of cached users.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
