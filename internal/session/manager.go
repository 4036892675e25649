package session

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// StoreFactory builds a Store bound to one browser session id. The factory
// wires the per-session credential storage and identity provider; bootstrap
// supplies it.
type StoreFactory func(sessionID string) *Store

// Manager maps browser session ids (the sid cookie) to their Store.
// Stores are created lazily and rehydrated from durable storage on first
// sight; concurrent first requests for the same sid are coalesced so the
// rehydration runs once. A store whose rehydration failed on a storage error
// is not cached, so a later request for the same sid rehydrates again.
type Manager struct {
	factory StoreFactory

	mu     sync.Mutex
	stores map[string]*Store
	group  singleflight.Group
}

// NewManager creates a Manager with the given store factory.
func NewManager(factory StoreFactory) *Manager {
	return &Manager{
		factory: factory,
		stores:  make(map[string]*Store),
	}
}

// Get returns the Store for sid, constructing and rehydrating it if needed.
func (m *Manager) Get(ctx context.Context, sid string) *Store {
	m.mu.Lock()
	if st, ok := m.stores[sid]; ok {
		m.mu.Unlock()
		return st
	}
	m.mu.Unlock()

	v, _, _ := m.group.Do(sid, func() (any, error) {
		// Re-check: another goroutine may have inserted between the map
		// check and the singleflight call.
		m.mu.Lock()
		if st, ok := m.stores[sid]; ok {
			m.mu.Unlock()
			return st, nil
		}
		m.mu.Unlock()

		st := m.factory(sid)
		if err := st.CheckAuth(ctx); err != nil {
			// Storage unreachable. Serve this request unauthenticated but
			// keep the sid out of the map so the next request rehydrates.
			return st, nil
		}

		m.mu.Lock()
		m.stores[sid] = st
		m.mu.Unlock()
		return st, nil
	})

	st, _ := v.(*Store)
	return st
}

// Peek returns the Store for sid without constructing one.
func (m *Manager) Peek(sid string) (*Store, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stores[sid]
	return st, ok
}

// Drop forgets the Store for sid. Used after logout, when the cookie is
// cleared; durable storage has already been purged by then.
func (m *Manager) Drop(sid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sid)
}

// Len reports the number of live stores (test helper / metrics).
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stores)
}
