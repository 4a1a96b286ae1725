package space

import (
	"fmt"
	"sort"

	"github.com/mwantia/semfs/data"
	"github.com/mwantia/semfs/graph"
	"github.com/mwantia/semfs/interval"
	"github.com/mwantia/semfs/snapshot"
)

// Export serializes the space's graph partition into (locator, tag, value)
// triples. Untagged files export as a single bare-locator record so they
// survive the round trip.
func (s *Space) Export() *snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &snapshot.Snapshot{
		SpaceID: s.id,
		Root:    s.root,
		Views:   make(map[string][]string, len(s.views)),
		Records: make([]snapshot.Record, 0, s.store.Len()),
	}

	for name, segments := range s.views {
		snap.Views[name] = append([]string(nil), segments...)
	}

	for id := range s.store.Files() {
		locator, err := s.store.Locator(id)
		if err != nil {
			panic(fmt.Sprintf("%v: enumerated file %s has no locator",
				data.ErrInternalInconsistency, id))
		}

		edges, err := s.store.TagsOf(id)
		if err != nil {
			panic(fmt.Sprintf("%v: enumerated file %s has no node",
				data.ErrInternalInconsistency, id))
		}

		if len(edges) == 0 {
			snap.Records = append(snap.Records, snapshot.Record{Locator: locator})
			continue
		}

		for _, edge := range edges {
			snap.Records = append(snap.Records, snapshot.Record{
				Locator: locator,
				Tag:     edge.Tag,
				Value:   edge.Value,
			})
		}
	}

	// Deterministic ordering keeps exports diffable and tests stable
	sort.Slice(snap.Records, func(i, j int) bool {
		if snap.Records[i].Locator != snap.Records[j].Locator {
			return snap.Records[i].Locator < snap.Records[j].Locator
		}
		return snap.Records[i].Tag < snap.Records[j].Tag
	})

	return snap
}

// Import replaces the space's graph partition with the snapshot contents.
// The whole graph and every interval index are rebuilt from scratch; a
// half-applied import can never be observed. Fails with
// ErrPersistenceMismatch when the snapshot was exported from a different
// root, without touching current state.
func (s *Space) Import(snap *snapshot.Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", data.ErrPersistenceMismatch)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Root != s.root {
		return fmt.Errorf("%w: snapshot root %q, space root %q",
			data.ErrPersistenceMismatch, snap.Root, s.root)
	}

	// Build aside first; only swap in once every record applied cleanly.
	store := graph.NewStore(nil)
	for _, record := range snap.Records {
		id := store.AddFile(record.Locator)
		if record.Tag == "" {
			continue
		}
		if err := store.Tag(id, record.Tag, record.Value); err != nil {
			return fmt.Errorf("%w: %v", data.ErrPersistenceMismatch, err)
		}
	}

	views := make(map[string][]string, len(snap.Views))
	for name, segments := range snap.Views {
		views[name] = append([]string(nil), segments...)
	}

	s.store = store
	s.views = views
	s.indexes = make(map[string]*interval.Tree)
	s.rebuildIndexes()

	s.generation++
	return nil
}

// rebuildIndexes reconstructs every interval index wholesale from the
// graph's scalar edges. Caller must hold the exclusive lock.
func (s *Space) rebuildIndexes() {
	for id := range s.store.Files() {
		edges, err := s.store.TagsOf(id)
		if err != nil {
			panic(fmt.Sprintf("%v: enumerated file %s has no node",
				data.ErrInternalInconsistency, id))
		}

		for _, edge := range edges {
			if edge.Value != nil {
				s.EdgeUpserted(id, edge.Tag, edge.Value)
			}
		}
	}

	s.store.SetSink(s)
}
