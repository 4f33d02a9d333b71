// Package execution owns the active configuration and drives transitions
// through the phased execution protocol against it. The store and the
// executor live in one package so that only the executor (and the
// documented seeding escape hatch) can mutate the active set.
package execution

import (
	"sync"
	"sync/atomic"

	"github.com/felixgeelhaar/multistate/domain/state"
)

// Store owns the active configuration of one manager instance. All
// reads and writes of "what is active" go through it; mutation happens
// only inside the executor's ACTIVATE/EXIT/VISIBILITY phases or through
// Seed.
type Store struct {
	mu     sync.RWMutex
	active state.Set

	// inFlight guards the phase sequence: it must run to a terminal
	// phase before another transition may start against this store.
	inFlight atomic.Bool
}

// NewStore creates a store with an empty active configuration.
func NewStore() *Store {
	return &Store{active: state.NewSet()}
}

// Snapshot returns a copy of the current active configuration.
func (s *Store) Snapshot() state.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Clone()
}

// IsActive reports whether the given state is active.
func (s *Store) IsActive(id state.ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Contains(id)
}

// Len returns the number of active states.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Len()
}

// Seed replaces the active configuration wholesale, bypassing the
// transition protocol. No callbacks run. Intended for initial population
// and test fixtures; group atomicity is the caller's responsibility
// (the manager expands groups before seeding).
func (s *Store) Seed(ids state.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = ids.Clone()
}

// union adds every ID in ids to the active set.
func (s *Store) union(ids state.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range ids {
		s.active.Add(id)
	}
}

// difference removes every ID in ids from the active set.
func (s *Store) difference(ids state.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range ids {
		s.active.Remove(id)
	}
}

// restore replaces the active set with a previously taken snapshot.
// Used by rollback.
func (s *Store) restore(snapshot state.Set) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = snapshot.Clone()
}

// begin marks a phase sequence as in flight. Returns false when another
// sequence has not yet reached a terminal phase.
func (s *Store) begin() bool {
	return s.inFlight.CompareAndSwap(false, true)
}

// end marks the in-flight phase sequence as terminal.
func (s *Store) end() {
	s.inFlight.Store(false)
}
