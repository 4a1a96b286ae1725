package query

import (
	"fmt"
	"sort"

	"github.com/mwantia/semfs/data"
)

// Source is what the evaluator reads: the tag graph of one semantic space
// plus its interval indexes. All three calls must observe the same
// consistent state; the owning space guarantees that by holding its lock
// for the whole evaluation.
type Source interface {
	// Files returns the full file set of the space.
	Files() data.FileSet

	// FilesWithTag returns the files carrying the named tag.
	FilesWithTag(tag string) data.FileSet

	// QueryRange returns the files whose scalar value for tag overlaps
	// the closed interval [low, high].
	QueryRange(tag string, low, high float64) data.FileSet
}

// Evaluate computes the result set of an expression by post-order walk.
// A nil expression (the root of a semantic space, before any narrowing)
// evaluates to the full file set. Repeated evaluation with no intervening
// mutation always yields an identical set; order within the set is
// deliberately unspecified.
func Evaluate(src Source, expr Expression) (data.FileSet, error) {
	if expr == nil {
		return src.Files(), nil
	}

	switch e := expr.(type) {
	case Has:
		return src.FilesWithTag(e.Tag), nil

	case Range:
		return src.QueryRange(e.Tag, e.Low, e.High), nil

	case And:
		return evaluateAnd(src, e.Children)

	case Or:
		result := make(data.FileSet)
		for _, child := range e.Children {
			set, err := Evaluate(src, child)
			if err != nil {
				return nil, err
			}
			for id := range set {
				result.Add(id)
			}
		}
		return result, nil

	case Not:
		set, err := Evaluate(src, e.Child)
		if err != nil {
			return nil, err
		}

		result := src.Files()
		for id := range set {
			delete(result, id)
		}
		return result, nil
	}

	return nil, fmt.Errorf("%w: unknown expression %T", data.ErrInvalidSegment, expr)
}

// evaluateAnd intersects child results smallest-first, so the running set
// shrinks as early as possible. A heuristic only; correctness never depends
// on the order.
func evaluateAnd(src Source, children []Expression) (data.FileSet, error) {
	if len(children) == 0 {
		return src.Files(), nil
	}

	sets := make([]data.FileSet, 0, len(children))
	for _, child := range children {
		set, err := Evaluate(src, child)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	sort.Slice(sets, func(i, j int) bool {
		return len(sets[i]) < len(sets[j])
	})

	result := sets[0].Clone()
	for _, set := range sets[1:] {
		for id := range result {
			if !set.Contains(id) {
				delete(result, id)
			}
		}
		if len(result) == 0 {
			break
		}
	}

	return result, nil
}
