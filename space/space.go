// Package space implements semantic spaces: physical directories whose
// contents are addressed by tag queries, each owning a private tag graph
// partition with its interval indexes, named views and one lock.
package space

import (
	"fmt"
	"sync"

	"github.com/mwantia/semfs/data"
	"github.com/mwantia/semfs/graph"
	"github.com/mwantia/semfs/interval"
	"github.com/mwantia/semfs/query"
)

// Space binds one tag graph store to its interval indexes as a single
// consistency domain: every mutation updates both under one exclusive
// critical section, every read holds shared access for its whole duration,
// so no caller can observe the store updated but an index stale.
//
// Spaces never share files or tags; two spaces may reuse a tag name with
// completely independent meaning.
type Space struct {
	mu sync.RWMutex

	id   data.SpaceID
	root string

	store *graph.Store

	// One interval index per scalar tag name, created lazily on first
	// scalar-valued edge and dropped again when its last entry goes.
	indexes map[string]*interval.Tree

	// Named views, kept as the segments they were saved from
	views map[string][]string

	// Evaluation cache, valid only for the generation it was computed in.
	// Any mutation bumps the generation, which invalidates every cached
	// view at once - including views derived from deleted or renamed tags.
	// The cache map has its own mutex so concurrent shared readers can
	// still fill it.
	cacheMu    sync.Mutex
	cache      map[string]cachedResult
	generation uint64
}

type cachedResult struct {
	generation uint64
	set        data.FileSet
}

// newSpace is only called by the Manager; space lifecycle is explicit.
func newSpace(root string) *Space {
	s := &Space{
		id:      data.NewSpaceID(),
		root:    root,
		indexes: make(map[string]*interval.Tree),
		views:   make(map[string][]string),
		cache:   make(map[string]cachedResult),
	}
	s.store = graph.NewStore(s)
	return s
}

// ID returns the stable identifier of this space.
func (s *Space) ID() data.SpaceID {
	return s.id
}

// Root returns the physical directory this space is anchored to.
func (s *Space) Root() string {
	return s.root
}

// AddFile registers a physical locator and returns its stable file ID.
func (s *Space) AddFile(locator string) data.FileID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.store.AddFile(locator)
}

// RemoveFile destroys a file and every edge it holds, in the graph and in
// every interval index, as one atomic unit.
func (s *Space) RemoveFile(id data.FileID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.store.RemoveFile(id)
}

// Tag upserts a presence-only edge.
func (s *Space) Tag(id data.FileID, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.store.Tag(id, tag, nil)
}

// TagValue upserts an edge carrying a scalar point value.
func (s *Space) TagValue(id data.FileID, tag string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.store.Tag(id, tag, data.Point(value))
}

// TagRange upserts an edge carrying a closed scalar interval, for files
// whose tag spans a range (a date span, a size bracket) rather than a point.
func (s *Space) TagRange(id data.FileID, tag string, low, high float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.store.Tag(id, tag, data.Interval(low, high))
}

// Untag removes an edge; absent edges are an idempotent no-op.
func (s *Space) Untag(id data.FileID, tag string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.store.Untag(id, tag)
}

// RenameFile rebinds a file to a new physical locator, keeping its ID and
// all its edges.
func (s *Space) RenameFile(id data.FileID, newLocator string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.store.RenameFile(id, newLocator)
}

// RenameTag moves every edge of oldName onto newName and invalidates any
// view derived from either.
func (s *Space) RenameTag(oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	return s.store.RenameTag(oldName, newName)
}

// TagsOf returns all edges of a file.
func (s *Space) TagsOf(id data.FileID) ([]data.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.TagsOf(id)
}

// Locator resolves a file ID to its owning physical locator.
func (s *Space) Locator(id data.FileID) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.Locator(id)
}

// ResolveLocator returns the file ID registered for a locator, if any.
func (s *Space) ResolveLocator(locator string) (data.FileID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.Resolve(locator)
}

// Len returns the number of registered files.
func (s *Space) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.store.Len()
}

// Evaluate computes the result set of an expression against this space.
// Results are cached per canonical expression key until the next mutation.
func (s *Space) Evaluate(expr query.Expression) (data.FileSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.evaluateLocked(expr)
}

// evaluateLocked serves from the cache when the generation still matches.
// Caller must hold at least a read lock; cache writes are guarded by a
// second small mutex so readers stay shared.
func (s *Space) evaluateLocked(expr query.Expression) (data.FileSet, error) {
	key := ""
	if expr != nil {
		key = expr.Key()
	}

	s.cacheMu.Lock()
	cached, hit := s.cache[key]
	s.cacheMu.Unlock()
	if hit && cached.generation == s.generation {
		return cached.set.Clone(), nil
	}

	set, err := query.Evaluate(source{s}, expr)
	if err != nil {
		return nil, err
	}

	s.cacheMu.Lock()
	s.cache[key] = cachedResult{generation: s.generation, set: set.Clone()}
	s.cacheMu.Unlock()

	return set, nil
}

// source adapts the space's unlocked internals to query.Source. Evaluation
// always runs inside the space's lock, so no extra locking here.
type source struct {
	s *Space
}

func (src source) Files() data.FileSet {
	return src.s.store.Files()
}

func (src source) FilesWithTag(tag string) data.FileSet {
	return src.s.store.FilesWithTag(tag)
}

func (src source) QueryRange(tag string, low, high float64) data.FileSet {
	tree, exists := src.s.indexes[tag]
	if !exists {
		return make(data.FileSet)
	}
	return tree.Query(low, high)
}

// QueryRange answers an interval query directly, without building an
// expression.
func (s *Space) QueryRange(tag string, low, high float64) data.FileSet {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return source{s}.QueryRange(tag, low, high)
}

// EdgeUpserted implements graph.IndexSink. Runs inside the exclusive
// critical section of the mutation that emitted it.
func (s *Space) EdgeUpserted(id data.FileID, tag string, value *data.Value) {
	tree, exists := s.indexes[tag]
	if !exists {
		tree = interval.NewTree()
		s.indexes[tag] = tree
	}
	tree.Insert(id, value.Low, value.High)
}

// EdgeRemoved implements graph.IndexSink.
func (s *Space) EdgeRemoved(id data.FileID, tag string) {
	tree, exists := s.indexes[tag]
	if !exists {
		panic(fmt.Sprintf("%v: no interval index for scalar tag %q",
			data.ErrInternalInconsistency, tag))
	}

	tree.Remove(id)
	if tree.Len() == 0 {
		delete(s.indexes, tag)
	}
}

// TagRenamed implements graph.IndexSink.
func (s *Space) TagRenamed(oldName, newName string) {
	tree, exists := s.indexes[oldName]
	if !exists {
		panic(fmt.Sprintf("%v: no interval index for scalar tag %q",
			data.ErrInternalInconsistency, oldName))
	}

	delete(s.indexes, oldName)
	s.indexes[newName] = tree
}
