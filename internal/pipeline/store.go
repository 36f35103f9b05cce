package pipeline

import (
	"sync/atomic"

	"github.com/couchcryptid/quake-map/internal/domain"
)

// Store holds the most recent snapshot for readers such as the HTTP server.
// It is safe for concurrent use.
type Store struct {
	current atomic.Pointer[domain.Snapshot]
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the current snapshot.
func (s *Store) Set(snap domain.Snapshot) {
	s.current.Store(&snap)
}

// Current returns the latest snapshot and whether one has been stored yet.
func (s *Store) Current() (domain.Snapshot, bool) {
	snap := s.current.Load()
	if snap == nil {
		return domain.Snapshot{}, false
	}
	return *snap, true
}
