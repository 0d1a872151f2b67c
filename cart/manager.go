package cart

import "sync"

// Manager hands out one Store per customer, created lazily. One cart per
// user, same rule the persistence-backed carts followed.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store
}

func NewManager() *Manager {
	return &Manager{stores: make(map[string]*Store)}
}

// ForUser returns the customer's store, creating it on first use.
func (m *Manager) ForUser(userID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stores[userID]
	if !ok {
		st = NewStore()
		m.stores[userID] = st
	}
	return st
}
