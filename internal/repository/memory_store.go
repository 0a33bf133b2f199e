package repository

import (
	"context"
	"sync"
)

// MemoryDocumentStore keeps documents in process memory. Contents are lost
// on restart.
type MemoryDocumentStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string][]byte)}
}

func (m *MemoryDocumentStore) Load(_ context.Context, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.docs[name]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryDocumentStore) Save(_ context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.docs[name] = append([]byte(nil), data...)
	return nil
}
