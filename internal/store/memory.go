package store

import (
	"context"
	"encoding/json"
	"sync"
)

// MemorySnapshots keeps the snapshot blob in process memory. It backs the
// default backend and the tests; contents do not survive a restart.
type MemorySnapshots struct {
	mu   sync.Mutex
	blob []byte
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{}
}

func (m *MemorySnapshots) Load(_ context.Context) (*Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blob == nil {
		return nil, nil
	}
	var s Snapshot
	if err := json.Unmarshal(m.blob, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemorySnapshots) Save(_ context.Context, s Snapshot) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blob = b
	m.mu.Unlock()
	return nil
}

func (m *MemorySnapshots) Clear(_ context.Context) error {
	m.mu.Lock()
	m.blob = nil
	m.mu.Unlock()
	return nil
}

func (m *MemorySnapshots) Close() error { return nil }
