package store

import (
	"context"
	"sync"
)

// MemoryPersister keeps the snapshot in process memory. It backs tests and
// ephemeral deployments that do not need durability across restarts.
type MemoryPersister struct {
	mu   sync.Mutex
	snap *Snapshot
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{}
}

func (m *MemoryPersister) Load(ctx context.Context) (*Snapshot, error) {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap, nil
}

func (m *MemoryPersister) Save(ctx context.Context, snap *Snapshot) error {
	_ = ctx
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = snap
	return nil
}
