package catalog

import "sync/atomic"

// Store holds the active catalog snapshot. Rebuilds publish a complete new
// snapshot and swap it in atomically; readers always see either the old or
// the new version, never a partial update.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store publishing snap as the active snapshot.
func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	s.current.Store(snap)
	return s
}

// Current returns the active snapshot.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Swap publishes snap as the new active snapshot.
func (s *Store) Swap(snap *Snapshot) {
	s.current.Store(snap)
}
