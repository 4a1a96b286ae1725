package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps snapshots in process memory. Useful for tests and as
// reference implementation of the Store contract. Snapshots are copied on
// Save and Load so callers never share mutable state with the store.
type MemoryStore struct {
	mu    sync.RWMutex
	snaps map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snaps: make(map[string][]byte),
	}
}

func (ms *MemoryStore) Name() string {
	return "memory"
}

func (ms *MemoryStore) Open(ctx context.Context) error {
	return nil
}

func (ms *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func (ms *MemoryStore) Save(ctx context.Context, snap *Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.snaps[snap.Root] = payload
	return nil
}

func (ms *MemoryStore) Load(ctx context.Context, root string) (*Snapshot, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	payload, exists := ms.snaps[root]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, root)
	}

	snap := &Snapshot{}
	if err := json.Unmarshal(payload, snap); err != nil {
		return nil, err
	}

	return snap, nil
}

func (ms *MemoryStore) Delete(ctx context.Context, root string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.snaps[root]; !exists {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, root)
	}

	delete(ms.snaps, root)
	return nil
}

func (ms *MemoryStore) List(ctx context.Context) ([]string, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	roots := make([]string, 0, len(ms.snaps))
	for root := range ms.snaps {
		roots = append(roots, root)
	}

	return roots, nil
}
