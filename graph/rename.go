package graph

import (
	"fmt"

	"github.com/mwantia/semfs/data"
)

// RenameFile rebinds a file node to a new physical locator. The file ID and
// every edge survive unchanged. Returns ErrNotFound for an unknown ID and
// ErrExist when the target locator is already registered.
func (s *Store) RenameFile(id data.FileID, newLocator string) error {
	node, exists := s.files[id]
	if !exists {
		return fmt.Errorf("%w: file %s", data.ErrNotFound, id)
	}

	if other, taken := s.locators.Get(newLocator); taken && other != id {
		return fmt.Errorf("%w: locator %s", data.ErrExist, newLocator)
	}

	s.locators.Delete(node.locator)
	node.locator = newLocator
	s.locators.Set(newLocator, id)

	return nil
}

// RenameTag moves every edge of oldName onto newName. Returns ErrNotFound
// when the old tag has no referencing files and ErrExist when the new name
// is already a live tag; merging two tags is not an implicit operation.
func (s *Store) RenameTag(oldName, newName string) error {
	set, exists := s.tags[oldName]
	if !exists {
		return fmt.Errorf("%w: tag %q", data.ErrNotFound, oldName)
	}

	if _, taken := s.tags[newName]; taken {
		return fmt.Errorf("%w: tag %q", data.ErrExist, newName)
	}

	scalar := false
	for id := range set {
		node, ok := s.files[id]
		if !ok {
			panic(fmt.Sprintf("%v: tag %q references missing file %s",
				data.ErrInternalInconsistency, oldName, id))
		}

		value, had := node.edges[oldName]
		if !had {
			panic(fmt.Sprintf("%v: edge (%s, %q) missing from file node",
				data.ErrInternalInconsistency, id, oldName))
		}

		delete(node.edges, oldName)
		node.edges[newName] = value
		if value != nil {
			scalar = true
		}
	}

	delete(s.tags, oldName)
	s.tags[newName] = set

	if scalar && s.sink != nil {
		s.sink.TagRenamed(oldName, newName)
	}

	return nil
}
