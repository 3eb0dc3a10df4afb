package storage

import "sync"

type MemoryStore struct {
	mu    sync.Mutex
	value string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.value == "" {
		return "", ErrNoCredential
	}
	return m.value, nil
}

func (m *MemoryStore) Save(credential string) error {
	m.mu.Lock()
	m.value = credential
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	m.value = ""
	m.mu.Unlock()
	return nil
}
