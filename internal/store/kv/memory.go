package kv

import (
	"context"
	"sync"
)

// Memory is an in-process backend. Every Set notifies all watchers of the
// key, so two stores sharing one Memory behave like two processes sharing
// one data directory.
type Memory struct {
	mu       sync.Mutex
	data     map[string][]byte
	writes   map[string]int
	watchers map[string][]func()
}

func NewMemory() *Memory {
	return &Memory{
		data:     map[string][]byte{},
		writes:   map[string]int{},
		watchers: map[string][]func(){},
	}
}

func (m *Memory) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), value...)
	m.writes[key]++
	fns := append([]func(){}, m.watchers[key]...)
	m.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return nil
}

// Writes returns how many times key has been Set.
func (m *Memory) Writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[key]
}

func (m *Memory) Close() error { return nil }

// Watch registers fn synchronously; it is dropped once ctx is done.
func (m *Memory) Watch(ctx context.Context, key string, fn func()) error {
	m.mu.Lock()
	m.watchers[key] = append(m.watchers[key], fn)
	idx := len(m.watchers[key]) - 1
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		if ws := m.watchers[key]; idx < len(ws) {
			ws[idx] = func() {}
		}
	}()
	return nil
}
