// AngelaMos | 2026
// memory.go

package storage

import (
	"context"
	"sync"
)

type MemoryBackend struct {
	mu     sync.RWMutex
	scopes map[string]map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{scopes: make(map[string]map[string][]byte)}
}

func (m *MemoryBackend) Get(_ context.Context, scope, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.scopes[scope][key]
	if !ok {
		return nil, ErrNotFound
	}

	return cloneBytes(value), nil
}

func (m *MemoryBackend) Set(_ context.Context, scope, key string, value []byte) error {
	if scope == "" {
		return ErrInvalidScope
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entries, ok := m.scopes[scope]
	if !ok {
		entries = make(map[string][]byte)
		m.scopes[scope] = entries
	}
	entries[key] = cloneBytes(value)

	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.scopes[scope], key)
	return nil
}

func (m *MemoryBackend) Clear(_ context.Context, scope string) error {
	if scope == "" {
		return ErrInvalidScope
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.scopes, scope)
	return nil
}

func (m *MemoryBackend) Ping(context.Context) error {
	return nil
}

// Len reports how many keys a scope holds.
func (m *MemoryBackend) Len(scope string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.scopes[scope])
}

// Scopes reports how many scopes hold at least one key.
func (m *MemoryBackend) Scopes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, entries := range m.scopes {
		if len(entries) > 0 {
			n++
		}
	}
	return n
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
