package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/gibbs-bakehouse/stampcard/internal/store"
)

// ErrInjected is returned by MemoryKV when a failure has been injected.
var ErrInjected = errors.New("testutil: injected failure")

// MemoryKV is an in-memory key-value provider with failure injection.
// Missing keys report store.ErrNotFound, matching the SQLite store.
type MemoryKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	puts    int
	failGet bool
	failPut bool
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, ErrInjected
	}
	v, ok := m.data[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Put stores a copy of value under key.
func (m *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPut {
		return ErrInjected
	}
	m.data[key] = append([]byte(nil), value...)
	m.puts++
	return nil
}

// Raw returns the stored bytes without failure injection.
func (m *MemoryKV) Raw(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// Puts returns how many successful Put calls were made.
func (m *MemoryKV) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}

// FailGets makes subsequent Get calls fail (or succeed again).
func (m *MemoryKV) FailGets(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGet = fail
}

// FailPuts makes subsequent Put calls fail (or succeed again).
func (m *MemoryKV) FailPuts(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failPut = fail
}
