package storage

import (
	"context"
	"sync"
)

// Memory is an in-process KV used for local development and tests.
type Memory struct {
	mu    sync.Mutex
	items map[string][]byte
}

// NewMemory returns an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{items: map[string][]byte{}}
}

func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return cp, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.items[key] = cp
	return nil
}

func (m *Memory) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}
