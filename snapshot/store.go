package snapshot

import (
	"context"
	"errors"
)

// ErrSnapshotNotFound is returned by Load and Delete when no snapshot is
// persisted for the requested space.
var ErrSnapshotNotFound = errors.New("semfs: no snapshot persisted for space")

// Store persists space snapshots. It is used as lifecycle entrypoint for the
// concrete encodings; the core never depends on a specific one.
type Store interface {
	// Name returns the identifier name defined for this store
	Name() string

	// Open is part of the lifecycle behaviour and gets called when opening this store.
	Open(ctx context.Context) error

	// Close is part of the lifecycle behaviour and gets called when closing this store.
	Close(ctx context.Context) error

	// Save persists a snapshot, replacing any previous one for the same space.
	Save(ctx context.Context, snap *Snapshot) error

	// Load retrieves the snapshot persisted for a space.
	// Returns ErrSnapshotNotFound if none exists.
	Load(ctx context.Context, root string) (*Snapshot, error)

	// Delete removes the snapshot persisted for a space.
	// Returns ErrSnapshotNotFound if none exists.
	Delete(ctx context.Context, root string) error

	// List returns the space roots with a persisted snapshot.
	List(ctx context.Context) ([]string, error)
}
