package physical

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/mwantia/semfs/data"
	"github.com/tidwall/btree"
)

// MemoryStore is an in-memory physical store: an ordered B-tree of path →
// entry, so directory listings are prefix scans. It backs tests and the
// demo CLI; real deployments put an OS-backed implementation behind the
// Store interface instead.
type MemoryStore struct {
	mu sync.RWMutex

	// Path index - B-tree for ordered path → entry mapping
	paths *btree.Map[string, Entry]
}

// NewMemoryStore creates an empty in-memory store with a root directory.
func NewMemoryStore() *MemoryStore {
	ms := &MemoryStore{
		paths: btree.NewMap[string, Entry](0),
	}
	ms.paths.Set("/", Entry{Name: "/", Dir: true})
	return ms
}

// MkDir creates a directory, including missing parents.
func (ms *MemoryStore) MkDir(p string) error {
	clean, err := data.CleanPath(p)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	walk := ""
	for _, part := range data.SplitPath(clean) {
		walk += "/" + part
		if entry, exists := ms.paths.Get(walk); exists {
			if !entry.Dir {
				return fmt.Errorf("%w: %s", data.ErrNotDirectory, walk)
			}
			continue
		}
		ms.paths.Set(walk, Entry{Name: part, Dir: true})
	}

	return nil
}

// Create registers an empty file, failing when the parent is missing.
func (ms *MemoryStore) Create(p string) error {
	clean, err := data.CleanPath(p)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	parent := path.Dir(clean)
	if entry, exists := ms.paths.Get(parent); !exists || !entry.Dir {
		return fmt.Errorf("%w: %s", data.ErrNotFound, parent)
	}

	ms.paths.Set(clean, Entry{Name: data.BaseName(clean), Dir: false})
	return nil
}

func (ms *MemoryStore) Stat(ctx context.Context, p string) (*Entry, error) {
	clean, err := data.CleanPath(p)
	if err != nil {
		return nil, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	entry, exists := ms.paths.Get(clean)
	if !exists {
		return nil, fmt.Errorf("%w: %s", data.ErrNotFound, clean)
	}

	return &entry, nil
}

func (ms *MemoryStore) List(ctx context.Context, p string) ([]Entry, error) {
	clean, err := data.CleanPath(p)
	if err != nil {
		return nil, err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	dir, exists := ms.paths.Get(clean)
	if !exists {
		return nil, fmt.Errorf("%w: %s", data.ErrNotFound, clean)
	}
	if !dir.Dir {
		return nil, fmt.Errorf("%w: %s", data.ErrNotDirectory, clean)
	}

	prefix := clean
	if prefix != "/" {
		prefix += "/"
	}

	entries := make([]Entry, 0)
	ms.paths.Ascend(prefix, func(key string, entry Entry) bool {
		if key == clean {
			return true
		}
		if !strings.HasPrefix(key, prefix) {
			return false
		}
		// Immediate children only
		if strings.Contains(key[len(prefix):], "/") {
			return true
		}
		entries = append(entries, entry)
		return true
	})

	return entries, nil
}

func (ms *MemoryStore) Remove(ctx context.Context, p string) error {
	clean, err := data.CleanPath(p)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, exists := ms.paths.Get(clean)
	if !exists {
		return fmt.Errorf("%w: %s", data.ErrNotFound, clean)
	}
	if entry.Dir {
		return fmt.Errorf("%w: %s", data.ErrNotDirectory, clean)
	}

	ms.paths.Delete(clean)
	return nil
}

func (ms *MemoryStore) Rename(ctx context.Context, oldPath, newPath string) error {
	oldClean, err := data.CleanPath(oldPath)
	if err != nil {
		return err
	}
	newClean, err := data.CleanPath(newPath)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	entry, exists := ms.paths.Get(oldClean)
	if !exists {
		return fmt.Errorf("%w: %s", data.ErrNotFound, oldClean)
	}
	if entry.Dir {
		return fmt.Errorf("%w: %s", data.ErrNotDirectory, oldClean)
	}

	ms.paths.Delete(oldClean)
	entry.Name = data.BaseName(newClean)
	ms.paths.Set(newClean, entry)

	return nil
}
