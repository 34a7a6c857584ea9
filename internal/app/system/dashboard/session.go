// internal/app/system/dashboard/session.go
package dashboard

import (
	"sync"
	"time"

	"github.com/ramaalshaban/dashboard/internal/app/system/projectcache"
	"github.com/ramaalshaban/dashboard/internal/domain/models"
)

// Session is the state of one signed-in dashboard: the bearer token, whether
// it has been validated, the current user list, the selected user and the
// project cache. Fields are guarded by mu; the cache guards itself.
type Session struct {
	ID string

	mu            sync.Mutex
	token         string
	authenticated bool
	users         []models.User
	listed        bool // users holds a completed load
	counts        map[string]string // project count label per listed user
	selected      string
	lastSeen      time.Time

	cache projectcache.Cache
}

// NewSession creates an unauthenticated session around cache.
func NewSession(id string, cache projectcache.Cache) *Session {
	return &Session{ID: id, cache: cache, lastSeen: time.Now()}
}

// Cache returns the session's project cache.
func (s *Session) Cache() projectcache.Cache {
	return s.cache
}

// Token returns the validated bearer token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Users returns a copy of the current user list.
func (s *Session) Users() []models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.User, len(s.users))
	copy(out, s.users)
	return out
}

// Listed reports whether a user list has loaded since the last sign-in.
func (s *Session) Listed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listed
}

// User finds id in the current list.
func (s *Session) User(id string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// Selected returns the id of the user whose projects were last opened.
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Touch records activity at now.
func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) signIn(token string) {
	s.mu.Lock()
	s.token = token
	s.authenticated = true
	s.listed = false
	s.mu.Unlock()
}

// reset drops everything except the cache, which the caller clears.
func (s *Session) reset() {
	s.mu.Lock()
	s.token = ""
	s.authenticated = false
	s.users = nil
	s.listed = false
	s.counts = nil
	s.selected = ""
	s.mu.Unlock()
}

func (s *Session) setUsers(users []models.User) {
	s.mu.Lock()
	s.users = users
	s.listed = true
	s.counts = make(map[string]string, len(users))
	s.mu.Unlock()
}

// Counts returns the label shown for each listed user; users still being
// resolved read LoadingLabel.
func (s *Session) Counts() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.users))
	for _, u := range s.users {
		if label, ok := s.counts[u.ID]; ok {
			out[u.ID] = label
		} else {
			out[u.ID] = LoadingLabel
		}
	}
	return out
}

func (s *Session) setCount(userID, label string) {
	s.mu.Lock()
	if s.counts != nil {
		s.counts[userID] = label
	}
	s.mu.Unlock()
}

func (s *Session) setSelected(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
}
