package space

import (
	"fmt"
	"sync"

	"github.com/mwantia/semfs/data"
	"github.com/mwantia/semfs/query"
	"github.com/mwantia/semfs/snapshot"
	"github.com/tidwall/btree"
)

// Manager tracks which physical directories are semantic roots and owns the
// explicit lifecycle of their partitions: Mark constructs, Unmark tears
// down. There is no ambient global state; every space lives in exactly one
// Manager.
//
// Operations on distinct spaces never contend - the Manager lock only
// guards the registry itself.
type Manager struct {
	mu sync.RWMutex

	// Ordered root path → space, for longest-prefix resolution
	roots *btree.Map[string, *Space]

	byID map[data.SpaceID]*Space
}

// NewManager creates an empty space registry.
func NewManager() *Manager {
	return &Manager{
		roots: btree.NewMap[string, *Space](0),
		byID:  make(map[data.SpaceID]*Space),
	}
}

// Mark designates a physical directory as a semantic root and returns the
// new space. Fails with ErrAlreadySemantic when the path is already marked
// and with ErrNestedSpace when it lies inside - or would contain - another
// space; spaces must not nest, or tag namespaces become ambiguous.
// The registry is left untouched on failure.
func (m *Manager) Mark(physicalPath string) (*Space, error) {
	root, err := data.CleanPath(physicalPath)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.roots.Get(root); exists {
		return nil, fmt.Errorf("%w: %s", data.ErrAlreadySemantic, root)
	}

	nested := ""
	m.roots.Scan(func(existing string, _ *Space) bool {
		if data.HasPathPrefix(root, existing) || data.HasPathPrefix(existing, root) {
			nested = existing
			return false
		}
		return true
	})
	if nested != "" {
		return nil, fmt.Errorf("%w: %s overlaps %s", data.ErrNestedSpace, root, nested)
	}

	sp := newSpace(root)
	m.roots.Set(root, sp)
	m.byID[sp.ID()] = sp

	return sp, nil
}

// Unmark tears down the space rooted at the given path, releasing its
// whole graph partition. Returns ErrSpaceNotFound if the path is not a
// semantic root.
func (m *Manager) Unmark(physicalPath string) error {
	root, err := data.CleanPath(physicalPath)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sp, exists := m.roots.Get(root)
	if !exists {
		return fmt.Errorf("%w: %s", data.ErrSpaceNotFound, root)
	}

	m.roots.Delete(root)
	delete(m.byID, sp.ID())

	return nil
}

// Get returns the space with the given ID.
// Returns ErrSpaceNotFound for destroyed or unknown spaces.
func (m *Manager) Get(id data.SpaceID) (*Space, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sp, exists := m.byID[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", data.ErrSpaceNotFound, id)
	}

	return sp, nil
}

// LookupRoot returns the space rooted exactly at path.
func (m *Manager) LookupRoot(path string) (*Space, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sp, exists := m.roots.Get(path)
	return sp, exists
}

// Match finds the space whose root is a prefix of path, returning it with
// the remaining sub-path. Space roots cannot nest, so at most one matches.
func (m *Manager) Match(path string) (*Space, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var match *Space
	m.roots.Scan(func(root string, sp *Space) bool {
		if data.HasPathPrefix(path, root) {
			match = sp
			return false
		}
		return true
	})

	if match == nil {
		return nil, "", false
	}

	return match, data.TrimPathPrefix(path, match.Root()), true
}

// Spaces returns all registered spaces ordered by root path.
func (m *Manager) Spaces() []*Space {
	m.mu.RLock()
	defer m.mu.RUnlock()

	spaces := make([]*Space, 0, m.roots.Len())
	m.roots.Scan(func(_ string, sp *Space) bool {
		spaces = append(spaces, sp)
		return true
	})

	return spaces
}

// Evaluate runs an expression against the identified space.
func (m *Manager) Evaluate(id data.SpaceID, expr query.Expression) (data.FileSet, error) {
	sp, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	return sp.Evaluate(expr)
}

// ResolveView parses a virtual sub-path within the identified space.
func (m *Manager) ResolveView(id data.SpaceID, segments []string) (query.Expression, error) {
	sp, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	return sp.ResolveView(segments)
}

// ListChildren lists the discriminating tag names below a view of the
// identified space.
func (m *Manager) ListChildren(id data.SpaceID, segments []string) ([]string, error) {
	sp, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	return sp.ListChildren(segments)
}

// Export serializes the identified space.
func (m *Manager) Export(id data.SpaceID) (*snapshot.Snapshot, error) {
	sp, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	return sp.Export(), nil
}

// Import replaces the identified space's partition with snapshot contents.
// Import data referencing an already-destroyed space fails with
// ErrSpaceNotFound wrapped in ErrPersistenceMismatch semantics: nothing is
// applied.
func (m *Manager) Import(id data.SpaceID, snap *snapshot.Snapshot) error {
	sp, err := m.Get(id)
	if err != nil {
		return fmt.Errorf("%w: %v", data.ErrPersistenceMismatch, err)
	}

	return sp.Import(snap)
}
