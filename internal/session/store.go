package session

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/excalibur-labs/helios-chat/pkg/metrics"
)

var (
	// ErrSessionNotFound is returned for unknown sessions and sessions owned
	// by someone else.
	ErrSessionNotFound = errors.New("session not found")
	// ErrStoreFull is returned by Create when MaxSessions live sessions exist.
	ErrStoreFull = errors.New("session limit reached")
)

// StoreConfig bounds the registry. Zero values disable the bound.
type StoreConfig struct {
	MaxSessions int
	// EndedTTL is how long an ended session stays readable before Create
	// is allowed to evict it.
	EndedTTL time.Duration
}

// Store keeps live sessions in memory. Sessions do not survive a restart.
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	cfg      StoreConfig
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore(cfg StoreConfig) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		now:      time.Now,
	}
}

// Create registers a new active session. Expired ended sessions are evicted
// first; if the store is still at capacity, ErrStoreFull is returned.
func (st *Store) Create(ownerID string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.pruneLocked()
	if st.cfg.MaxSessions > 0 && len(st.sessions) >= st.cfg.MaxSessions {
		return nil, ErrStoreFull
	}

	s := New(ownerID)
	st.sessions[s.ID] = s
	metrics.SessionsTotal.Inc()
	return s, nil
}

func (st *Store) pruneLocked() {
	if st.cfg.EndedTTL <= 0 {
		return
	}
	cutoff := st.now().Add(-st.cfg.EndedTTL)
	for id, s := range st.sessions {
		if s.Ended() && s.UpdatedAt().Before(cutoff) {
			delete(st.sessions, id)
		}
	}
}

// Len returns the number of sessions held.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Get returns the session if it exists and belongs to ownerID.
func (st *Store) Get(id, ownerID string) (*Session, error) {
	st.mu.RLock()
	s, exists := st.sessions[id]
	st.mu.RUnlock()

	if !exists || s.OwnerID != ownerID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// List returns the sessions of ownerID, oldest first.
func (st *Store) List(ownerID string) []*Session {
	st.mu.RLock()
	defer st.mu.RUnlock()

	var out []*Session
	for _, s := range st.sessions {
		if s.OwnerID == ownerID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Delete removes a session.
func (st *Store) Delete(id, ownerID string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, exists := st.sessions[id]
	if !exists || s.OwnerID != ownerID {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}
