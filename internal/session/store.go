// Package session owns per-user location state. Each session serializes its
// evaluation cycles so interactions are reconciled in arrival order.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/couchcryptid/weathif/internal/location"
	"github.com/couchcryptid/weathif/internal/observability"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// ErrNotFound means the session id is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Session pairs a LocationState with the lock that serializes its cycles.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	state *location.State
}

// Do runs fn with exclusive access to the session's state.
func (s *Session) Do(fn func(*location.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

// Snapshot returns the current state under the session lock.
func (s *Session) Snapshot() location.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Store keeps sessions in memory, expiring them after a period of inactivity.
type Store struct {
	cache   *gocache.Cache
	metrics *observability.Metrics
}

// NewStore creates a Store whose sessions expire ttl after their last use.
func NewStore(ttl time.Duration, metrics *observability.Metrics) *Store {
	s := &Store{
		cache:   gocache.New(ttl, ttl/2),
		metrics: metrics,
	}
	s.cache.OnEvicted(func(string, any) {
		metrics.ActiveSessions.Dec()
	})
	return s
}

// Create starts a new Unresolved session.
func (s *Store) Create() *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		state:     location.New(),
	}
	s.cache.SetDefault(sess.ID, sess)
	s.metrics.ActiveSessions.Inc()
	return sess
}

// Get returns the session and extends its expiry.
func (s *Store) Get(id string) (*Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	sess := v.(*Session)
	// Replace fails if the janitor evicted the session after Get, so an
	// expired session is never revived.
	if err := s.cache.Replace(id, sess, gocache.DefaultExpiration); err != nil {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len reports the number of live sessions.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
