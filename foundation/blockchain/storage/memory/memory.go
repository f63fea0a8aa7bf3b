// Package memory implements the ability to read and write records to memory
// using a map.
package memory

import (
	"sync"

	"github.com/ardanlabs/blockcoin/foundation/blockchain/storage"
)

// Memory represents the storage implementation for reading and storing
// records in memory. This implements the storage.Store interface.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New constructs a Memory value for use.
func New() *Memory {
	return &Memory{
		data: make(map[string][]byte),
	}
}

// Close in this implementation has nothing to do since everything
// is in memory.
func (m *Memory) Close() error {
	return nil
}

// Get returns a copy of the value stored for the key.
func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, exists := m.data[key]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return append([]byte(nil), v...), nil
}

// Put stores a copy of the value for the key.
func (m *Memory) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes the key from memory.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.data, key)
	return nil
}
