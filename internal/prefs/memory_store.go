package prefs

import "sync"

// MemoryStore is an in-memory Store implementation for tests and
// development. NotifyExternalChange simulates another writer touching the
// backing file.
type MemoryStore struct {
	mu      sync.Mutex
	current Preferences
	subs    []func(Preferences)
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{current: Defaults()}
}

func (m *MemoryStore) Snapshot() Preferences {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

func (m *MemoryStore) SetAutosaveEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.AutosaveEnabled = enabled
	return nil
}

func (m *MemoryStore) SetReadabilityMode(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.ReadabilityMode = enabled
	return nil
}

func (m *MemoryStore) SetSwipeLock(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.SwipeLock = enabled
	return nil
}

func (m *MemoryStore) SetLastUsedLocator(locator string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.LastUsedLocator = locator
	return nil
}

func (m *MemoryStore) ClearLastUsedLocator() error {
	return m.SetLastUsedLocator("")
}

func (m *MemoryStore) Subscribe(fn func(Preferences)) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// NotifyExternalChange replaces the preferences as an external writer would
// and fires subscribers.
func (m *MemoryStore) NotifyExternalChange(p Preferences) {
	m.mu.Lock()
	m.current = p
	subs := make([]func(Preferences), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(p)
	}
}
