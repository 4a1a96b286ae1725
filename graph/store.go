// Package graph implements the authoritative in-memory tag graph of one
// semantic space: an arena of file and tag nodes joined by edges.
package graph

import (
	"fmt"

	"github.com/mwantia/semfs/data"
	"github.com/tidwall/btree"
)

// Store is the tag graph of a single semantic space with three-layer layout:
//
// Layer 1 (locators): B-tree mapping physical locator → file ID for ordered
// lookups and prefix scans
// Layer 2 (files):    Map of file ID → file node (locator + outgoing edges)
// Layer 3 (tags):     Map of tag name → referencing file set
//
// Edges are adjacency maps keyed by opaque IDs on both sides, never direct
// object-to-object references. Tags are created lazily on first use and
// garbage collected when their last referencing file lets go, so an
// open-ended tag vocabulary cannot grow the arena unbounded.
//
// The Store is NOT internally locked. The owning space serializes access so
// that a graph mutation and the matching interval-index update form one
// atomic unit under a single lock.
type Store struct {
	// Layer 1: Locator index - ordered locator → file ID mapping
	locators *btree.Map[string, data.FileID]

	// Layer 2: File arena
	files map[data.FileID]*fileNode

	// Layer 3: Tag arena - reverse adjacency
	tags map[string]data.FileSet

	// Scalar edge mutations are mirrored into the interval index through
	// this sink within the caller's critical section.
	sink IndexSink
}

type fileNode struct {
	id      data.FileID
	locator string

	// Forward adjacency: tag name → optional scalar value
	edges map[string]*data.Value
}

// IndexSink receives scalar edge events so the interval index stays
// transactionally consistent with the graph. All callbacks run under the
// owning space's exclusive lock.
type IndexSink interface {
	// EdgeUpserted is emitted for every tag/re-tag carrying a scalar value.
	EdgeUpserted(id data.FileID, tag string, value *data.Value)

	// EdgeRemoved is emitted when a scalar-valued edge disappears, whether
	// by untag, by re-tag to a plain presence edge, or by file removal.
	EdgeRemoved(id data.FileID, tag string)

	// TagRenamed is emitted when a scalar-carrying tag changes its name.
	TagRenamed(oldName, newName string)
}

// NewStore creates an empty tag graph. The sink may be nil when no interval
// index is attached (import rebuilds, tests).
func NewStore(sink IndexSink) *Store {
	return &Store{
		locators: btree.NewMap[string, data.FileID](0),
		files:    make(map[data.FileID]*fileNode),
		tags:     make(map[string]data.FileSet),
		sink:     sink,
	}
}

// SetSink replaces the index sink. Used when rebuilding indexes wholesale
// after a snapshot import.
func (s *Store) SetSink(sink IndexSink) {
	s.sink = sink
}

// AddFile registers a physical locator with the graph and returns its stable
// file ID. Registering an already-known locator returns the existing ID
// instead of failing; the adapter may legitimately re-register on retry.
func (s *Store) AddFile(locator string) data.FileID {
	if id, exists := s.locators.Get(locator); exists {
		return id
	}

	id := data.NewFileID()
	s.files[id] = &fileNode{
		id:      id,
		locator: locator,
		edges:   make(map[string]*data.Value),
	}
	s.locators.Set(locator, id)

	return id
}

// RemoveFile destroys a file node and cascades removal of all its edges so
// no dangling references survive in any tag set or index.
// Returns ErrNotFound if the ID is not registered.
func (s *Store) RemoveFile(id data.FileID) error {
	node, exists := s.files[id]
	if !exists {
		return fmt.Errorf("%w: file %s", data.ErrNotFound, id)
	}

	for tag, value := range node.edges {
		s.detachEdge(node, tag, value)
	}

	s.locators.Delete(node.locator)
	delete(s.files, id)

	return nil
}

// Tag upserts the (file, tag) edge, creating the tag node on first use.
// A nil value stores a presence-only edge; re-tagging replaces any previous
// value rather than duplicating the edge.
// Returns ErrNotFound if the file is not registered.
func (s *Store) Tag(id data.FileID, tag string, value *data.Value) error {
	node, exists := s.files[id]
	if !exists {
		return fmt.Errorf("%w: file %s", data.ErrNotFound, id)
	}

	if prev, had := node.edges[tag]; had && prev != nil && value == nil {
		// Scalar edge downgraded to presence-only
		s.emitRemoved(id, tag)
	}

	node.edges[tag] = value

	set, exists := s.tags[tag]
	if !exists {
		set = make(data.FileSet)
		s.tags[tag] = set
	}
	set.Add(id)

	if value != nil {
		s.emitUpserted(id, tag, value)
	}

	return nil
}

// Untag removes the (file, tag) edge. Untagging an absent edge is an
// idempotent no-op, never an error; only an unknown file fails.
func (s *Store) Untag(id data.FileID, tag string) error {
	node, exists := s.files[id]
	if !exists {
		return fmt.Errorf("%w: file %s", data.ErrNotFound, id)
	}

	value, had := node.edges[tag]
	if !had {
		return nil
	}

	delete(node.edges, tag)
	s.detachEdge(node, tag, value)

	return nil
}

// FilesWithTag returns the set of files carrying the named tag.
// An unknown tag yields an empty set. The result is a copy the caller may
// consume destructively.
func (s *Store) FilesWithTag(tag string) data.FileSet {
	set, exists := s.tags[tag]
	if !exists {
		return make(data.FileSet)
	}

	for id := range set {
		if _, ok := s.files[id]; !ok {
			panic(fmt.Sprintf("%v: tag %q references missing file %s",
				data.ErrInternalInconsistency, tag, id))
		}
	}

	return set.Clone()
}

// TagsOf returns all edges of a file. Returns ErrNotFound for an unknown ID.
func (s *Store) TagsOf(id data.FileID) ([]data.Edge, error) {
	node, exists := s.files[id]
	if !exists {
		return nil, fmt.Errorf("%w: file %s", data.ErrNotFound, id)
	}

	edges := make([]data.Edge, 0, len(node.edges))
	for tag, value := range node.edges {
		edges = append(edges, data.Edge{Tag: tag, Value: value})
	}

	return edges, nil
}

// HasTag reports whether the (file, tag) edge exists.
func (s *Store) HasTag(id data.FileID, tag string) bool {
	node, exists := s.files[id]
	if !exists {
		return false
	}

	_, had := node.edges[tag]
	return had
}

// Files returns the full file set of the space.
func (s *Store) Files() data.FileSet {
	set := make(data.FileSet, len(s.files))
	for id := range s.files {
		set.Add(id)
	}
	return set
}

// Tags returns all live tag names.
func (s *Store) Tags() []string {
	names := make([]string, 0, len(s.tags))
	for tag := range s.tags {
		names = append(names, tag)
	}
	return names
}

// Len returns the number of registered files.
func (s *Store) Len() int {
	return len(s.files)
}

// Locator resolves a file ID back to its owning physical locator.
func (s *Store) Locator(id data.FileID) (string, error) {
	node, exists := s.files[id]
	if !exists {
		return "", fmt.Errorf("%w: file %s", data.ErrNotFound, id)
	}
	return node.locator, nil
}

// Resolve returns the file ID registered for a physical locator.
func (s *Store) Resolve(locator string) (data.FileID, bool) {
	return s.locators.Get(locator)
}

// detachEdge drops the reverse adjacency entry for an already-removed
// forward edge and garbage collects the tag when unreferenced.
func (s *Store) detachEdge(node *fileNode, tag string, value *data.Value) {
	set, exists := s.tags[tag]
	if !exists || !set.Contains(node.id) {
		panic(fmt.Sprintf("%v: edge (%s, %q) missing from tag set",
			data.ErrInternalInconsistency, node.id, tag))
	}

	delete(set, node.id)
	if len(set) == 0 {
		delete(s.tags, tag)
	}

	if value != nil {
		s.emitRemoved(node.id, tag)
	}
}

func (s *Store) emitUpserted(id data.FileID, tag string, value *data.Value) {
	if s.sink != nil {
		s.sink.EdgeUpserted(id, tag, value)
	}
}

func (s *Store) emitRemoved(id data.FileID, tag string) {
	if s.sink != nil {
		s.sink.EdgeRemoved(id, tag)
	}
}
