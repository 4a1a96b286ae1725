// Package physical declares the interface the core needs from the physical
// file store. Byte I/O, permissions and ownership stay on the other side of
// this boundary; the core only ever asks "what exists here".
package physical

import (
	"context"
)

// Entry describes one physical object as far as the core cares.
type Entry struct {
	// Name is the base name of the entry
	Name string

	// Dir reports whether the entry is a directory
	Dir bool
}

// Store is the physical storage collaborator. Implementations are expected
// to return data.ErrNotFound and data.ErrNotDirectory for the usual
// failure shapes so the resolver can pass them through unchanged.
type Store interface {
	// Stat returns the entry at an absolute physical path.
	Stat(ctx context.Context, path string) (*Entry, error)

	// List returns the children of a physical directory.
	List(ctx context.Context, path string) ([]Entry, error)

	// Remove deletes a physical file. Directories are not removed through
	// the core.
	Remove(ctx context.Context, path string) error

	// Rename moves a physical file. Used to keep the graph's locators and
	// the physical tree in step.
	Rename(ctx context.Context, oldPath, newPath string) error
}
