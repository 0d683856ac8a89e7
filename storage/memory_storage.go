package storage

import (
	"context"
	"sync"
)

// MemoryStorage keeps session state in process memory.
type MemoryStorage struct {
	mu       sync.RWMutex
	data     map[string]map[string]string
	watchers map[chan Change]struct{}
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		data:     make(map[string]map[string]string),
		watchers: make(map[chan Change]struct{}),
	}
}

func (m *MemoryStorage) Get(_ context.Context, sessionID, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[sessionID][key], nil
}

func (m *MemoryStorage) Set(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	if m.data[sessionID] == nil {
		m.data[sessionID] = make(map[string]string)
	}
	m.data[sessionID][key] = value
	m.mu.Unlock()

	m.notify(Change{SessionID: sessionID, Key: key})
	return nil
}

func (m *MemoryStorage) Remove(_ context.Context, sessionID string, keys ...string) error {
	m.mu.Lock()
	if session, ok := m.data[sessionID]; ok {
		for _, k := range keys {
			delete(session, k)
		}
		if len(session) == 0 {
			delete(m.data, sessionID)
		}
	}
	m.mu.Unlock()

	for _, k := range keys {
		m.notify(Change{SessionID: sessionID, Key: k})
	}
	return nil
}

func (m *MemoryStorage) Watch(ctx context.Context) (<-chan Change, error) {
	ch := make(chan Change, 64)

	m.mu.Lock()
	m.watchers[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.watchers, ch)
		close(ch)
		m.mu.Unlock()
	}()
	return ch, nil
}

// notify drops the change for a watcher whose buffer is full.
func (m *MemoryStorage) notify(change Change) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for ch := range m.watchers {
		select {
		case ch <- change:
		default:
		}
	}
}
