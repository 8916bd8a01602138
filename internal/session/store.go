package session

import (
	"context"
	"sync"
	"time"

	"github.com/desertthunder/catalogai/internal/metrics"
	"github.com/desertthunder/catalogai/internal/shared"
)

type entry struct {
	state   State
	touched time.Time
}

// Store keeps session states in memory.
//
// Concurrent writes to the same id are last-write-wins.
type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*entry
	now      func() time.Time
}

// NewStore creates a store whose entries expire after ttl of inactivity. A zero ttl never expires.
func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, sessions: make(map[string]*entry), now: time.Now}
}

// New creates an empty Idle session and returns its id.
func (s *Store) New() (string, State) {
	id := shared.GenerateID()
	state := State{Phase: Idle}

	s.mu.Lock()
	s.sessions[id] = &entry{state: state, touched: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SetActiveSessions(n)
	return id, state
}

// Get returns the state for id. Unknown and expired ids report false.
func (s *Store) Get(id string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok || s.expired(e) {
		return State{}, false
	}
	e.touched = s.now()
	return e.state, true
}

// Put stores state under id, creating the entry if needed.
func (s *Store) Put(id string, state State) {
	s.mu.Lock()
	s.sessions[id] = &entry{state: state, touched: s.now()}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SetActiveSessions(n)
}

// Delete removes id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SetActiveSessions(n)
}

// Len returns the number of stored sessions, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	removed := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			removed++
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SetActiveSessions(n)
	return removed
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) expired(e *entry) bool {
	return s.ttl > 0 && s.now().Sub(e.touched) > s.ttl
}
