package docstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store. It backs single-node deployments and
// tests. Snapshot callbacks run synchronously on the writer's goroutine,
// which keeps test ordering deterministic.
type Memory struct {
	mu      sync.Mutex
	docs    map[string][]byte
	subs    map[string]map[int]func(data []byte)
	nextSub int
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		docs: make(map[string][]byte),
		subs: make(map[string]map[int]func(data []byte)),
	}
}

func (m *Memory) Get(ctx context.Context, path string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[path]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(data), nil
}

func (m *Memory) Overwrite(ctx context.Context, path string, data []byte) error {
	m.mu.Lock()
	m.docs[path] = clone(data)
	listeners := m.listenersLocked(path)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(clone(data))
	}
	return nil
}

func (m *Memory) Update(ctx context.Context, path string, fn func(old []byte) ([]byte, error)) error {
	m.mu.Lock()
	old := clone(m.docs[path])
	updated, err := fn(old)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	m.docs[path] = clone(updated)
	listeners := m.listenersLocked(path)
	m.mu.Unlock()

	for _, l := range listeners {
		l(clone(updated))
	}
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, path string, fn func(data []byte)) (func(), error) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	if m.subs[path] == nil {
		m.subs[path] = make(map[int]func(data []byte))
	}
	m.subs[path][id] = fn
	current, exists := m.docs[path]
	if exists {
		current = clone(current)
	}
	m.mu.Unlock()

	if exists {
		fn(current)
	}

	unsub := func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs[path], id)
	}
	return unsub, nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	_, existed := m.docs[path]
	delete(m.docs, path)
	listeners := m.listenersLocked(path)
	m.mu.Unlock()

	if existed {
		for _, fn := range listeners {
			fn(nil)
		}
	}
	return nil
}

// listenersLocked snapshots the subscriber set for a path.
func (m *Memory) listenersLocked(path string) []func(data []byte) {
	var listeners []func(data []byte)
	for _, fn := range m.subs[path] {
		listeners = append(listeners, fn)
	}
	return listeners
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	dup := make([]byte, len(b))
	copy(dup, b)
	return dup
}
