package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Store is durable blob storage keyed by string.
// Values are JSON documents owned by the caller.
type Store interface {
	// Get returns the value for key, or ok=false when nothing is stored
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set replaces the value for key
	Set(ctx context.Context, key string, value []byte) error

	// Keys lists stored keys starting with prefix, sorted
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Memory is an in-process Store
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Keys(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
