package session

import "sync"

// State describes the currently open document. It is a value type replaced
// wholesale on every transition, never mutated in place, so observers
// always see a fully-consistent snapshot.
type State struct {
	DisplayName  string
	Locator      string // empty means the document has never been saved or loaded
	Text         string
	BaselineText string // text as of the last successful load or save
	Dirty        bool   // true iff Text != BaselineText

	// Prompt is the modal decision awaiting the user, if any. At most one
	// is active; setting a new one replaces the old.
	Prompt *Prompt

	// PendingSave is set when an interactive save was attempted without a
	// known locator; it re-runs once the user supplies a target.
	PendingSave *PendingSave

	// ExitRequested signals the host to terminate the session.
	ExitRequested bool
}

// NewState returns a fresh empty state for a document with the given name.
func NewState(displayName string) State {
	return State{DisplayName: displayName}
}

// Store holds the session state behind a single reference. Updates swap the
// whole value under the lock; Prompt and PendingSave payloads are data-only
// and never mutated after creation, so sharing their pointers across
// snapshots is safe.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore(initial State) *Store {
	return &Store{state: initial}
}

// Snapshot returns the current state value.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Update applies fn to a copy of the current state and swaps the result in,
// returning the new value.
func (s *Store) Update(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state
}
