package stubs

import (
	"context"
	"sort"
	"sync"
)

// MockStore is an in-memory implementation of the kv.Store interface.
// It backs the "memory" storage mode and the unit tests, and can be told to
// fail reads or writes.
type MockStore struct {
	mu      sync.RWMutex
	values  map[string]string
	readErr error
	// writeErr fails Set and Remove
	writeErr error
	writes   int
}

// NewMockStore creates a new empty store
func NewMockStore() *MockStore {
	return &MockStore{
		values: make(map[string]string),
	}
}

// Initialize is a no-op for the in-memory store
func (m *MockStore) Initialize(ctx context.Context) error {
	return nil
}

// Get returns the value stored under key
func (m *MockStore) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.readErr != nil {
		return "", false, m.readErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key
func (m *MockStore) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}
	m.values[key] = value
	m.writes++
	return nil
}

// Remove deletes key
func (m *MockStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.writeErr != nil {
		return m.writeErr
	}
	delete(m.values, key)
	m.writes++
	return nil
}

// Close is a no-op for the in-memory store
func (m *MockStore) Close() error {
	return nil
}

// FailReads makes every following Get return err. Pass nil to recover.
func (m *MockStore) FailReads(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErr = err
}

// FailWrites makes every following Set and Remove return err. Pass nil to recover.
func (m *MockStore) FailWrites(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Writes returns the number of successful Set and Remove calls
func (m *MockStore) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// Keys returns the stored keys sorted by name
func (m *MockStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
