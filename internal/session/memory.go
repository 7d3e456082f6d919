package session

import "sync"

// MemoryTokenStore keeps tokens in process memory only.
type MemoryTokenStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) Save(access, refresh string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.access, m.refresh = access, refresh
	return nil
}

func (m *MemoryTokenStore) Access() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.access, nil
}

func (m *MemoryTokenStore) Refresh() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refresh, nil
}

func (m *MemoryTokenStore) Clear() error {
	return m.Save("", "")
}
