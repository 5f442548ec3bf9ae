package storage

import (
	"context"
	"sync"
)

// MemoryBackend keeps slots in process memory. Fail, when set, makes every call return it.
type MemoryBackend struct {
	mu    sync.Mutex
	blobs map[Slot][]byte
	fail  error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{blobs: make(map[Slot][]byte)}
}

func (m *MemoryBackend) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}

func (m *MemoryBackend) Get(_ context.Context, slot Slot) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, false, m.fail
	}
	blob, ok := m.blobs[slot]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), blob...), true, nil
}

func (m *MemoryBackend) Set(_ context.Context, slot Slot, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.blobs[slot] = append([]byte(nil), blob...)
	return nil
}

func (m *MemoryBackend) Remove(_ context.Context, slot Slot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	delete(m.blobs, slot)
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
