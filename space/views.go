package space

import (
	"fmt"
	"sort"

	"github.com/mwantia/semfs/data"
	"github.com/mwantia/semfs/query"
)

// ResolveView parses the segments of a virtual sub-path into one predicate,
// folding them with And: each segment narrows the previous result, and
// segment order never changes the outcome. A leading segment naming a saved
// view substitutes the view's own segments in place.
// Fails with ErrInvalidSegment when any segment is not a valid predicate.
func (s *Space) ResolveView(segments []string) (query.Expression, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.resolveViewLocked(segments)
}

func (s *Space) resolveViewLocked(segments []string) (query.Expression, error) {
	if len(segments) > 0 {
		if saved, exists := s.views[segments[0]]; exists {
			expanded := make([]string, 0, len(saved)+len(segments)-1)
			expanded = append(expanded, saved...)
			expanded = append(expanded, segments[1:]...)
			segments = expanded
		}
	}

	if len(segments) == 0 {
		// Root of the space: the empty conjunction, i.e. all files
		return nil, nil
	}

	return query.ParseSegments(segments)
}

// ListChildren returns the virtual directory entries below a view: every
// tag name that at least one file of the current result set still carries
// and that no segment has consumed yet. Consumed tags are excluded so the
// same tag cannot nest redundantly forever. At the space root the saved
// view names are listed as well.
func (s *Space) ListChildren(segments []string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	expr, err := s.resolveViewLocked(segments)
	if err != nil {
		return nil, err
	}

	result, err := s.evaluateLocked(expr)
	if err != nil {
		return nil, err
	}

	consumed := make(map[string]struct{})
	if expr != nil {
		for _, tag := range query.Tags(expr) {
			consumed[tag] = struct{}{}
		}
	}

	children := make(map[string]struct{})
	for id := range result {
		edges, err := s.store.TagsOf(id)
		if err != nil {
			panic(fmt.Sprintf("%v: result set references missing file %s",
				data.ErrInternalInconsistency, id))
		}

		for _, edge := range edges {
			if _, taken := consumed[edge.Tag]; taken {
				continue
			}
			children[edge.Tag] = struct{}{}
		}
	}

	if len(segments) == 0 {
		for name := range s.views {
			children[name] = struct{}{}
		}
	}

	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// SaveView persists a named view defined by path segments. The segments
// must parse; saving never stores an expression the resolver would later
// reject.
func (s *Space) SaveView(name string, segments []string) error {
	if name == "" {
		return fmt.Errorf("%w: empty view name", data.ErrInvalidSegment)
	}

	if _, err := query.ParseSegments(segments); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.views[name] = append([]string(nil), segments...)
	return nil
}

// DeleteView removes a named view. Returns ErrNotFound for unknown names.
func (s *Space) DeleteView(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.views[name]; !exists {
		return fmt.Errorf("%w: view %q", data.ErrNotFound, name)
	}

	delete(s.views, name)
	return nil
}

// Views returns the saved view names.
func (s *Space) Views() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.views))
	for name := range s.views {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
