// Package query defines tag-query expressions, the virtual path segment
// parser that produces them, and the evaluator that turns them into file
// sets.
package query

import (
	"fmt"
	"sort"
	"strings"
)

// Expression is one immutable node of a predicate tree. The variants are
// fixed: Has, Range, And, Or and Not. Anything a path segment cannot be
// parsed into is rejected up front instead of falling through silently.
type Expression interface {
	// Key returns a canonical text form. Commutative variants sort their
	// children, so expressions that narrow to the same predicate share a
	// key regardless of segment order.
	Key() string
}

// Has matches files carrying the named tag, with or without a value.
type Has struct {
	Tag string
}

// Range matches files whose scalar value for Tag overlaps the closed
// interval [Low, High]. Point lookups use Low == High.
type Range struct {
	Tag  string
	Low  float64
	High float64
}

// And intersects its children. An empty And matches the whole space.
type And struct {
	Children []Expression
}

// Or unions its children.
type Or struct {
	Children []Expression
}

// Not complements its child against the space's full file set. On its own
// that produces the whole rest of the space; it is only meaningful composed
// under an enclosing And, which is exactly how segment folding uses it.
type Not struct {
	Child Expression
}

func (e Has) Key() string {
	return fmt.Sprintf("has(%s)", e.Tag)
}

func (e Range) Key() string {
	return fmt.Sprintf("range(%s,%g,%g)", e.Tag, e.Low, e.High)
}

func (e And) Key() string {
	return nary("and", e.Children)
}

func (e Or) Key() string {
	return nary("or", e.Children)
}

func (e Not) Key() string {
	return fmt.Sprintf("not(%s)", e.Child.Key())
}

func nary(op string, children []Expression) string {
	keys := make([]string, len(children))
	for i, child := range children {
		keys[i] = child.Key()
	}
	sort.Strings(keys)

	return fmt.Sprintf("%s(%s)", op, strings.Join(keys, ","))
}

// Fold combines expressions into a single And, flattening nested Ands so
// segment-by-segment narrowing builds one flat conjunction.
func Fold(exprs ...Expression) Expression {
	flat := make([]Expression, 0, len(exprs))
	for _, expr := range exprs {
		if and, ok := expr.(And); ok {
			flat = append(flat, and.Children...)
			continue
		}
		flat = append(flat, expr)
	}

	if len(flat) == 1 {
		return flat[0]
	}
	return And{Children: flat}
}

// Tags returns every tag name the expression touches, used for child
// listing to exclude already-consumed segments.
func Tags(expr Expression) []string {
	seen := make(map[string]struct{})
	walkTags(expr, seen)

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func walkTags(expr Expression, seen map[string]struct{}) {
	switch e := expr.(type) {
	case Has:
		seen[e.Tag] = struct{}{}
	case Range:
		seen[e.Tag] = struct{}{}
	case And:
		for _, child := range e.Children {
			walkTags(child, seen)
		}
	case Or:
		for _, child := range e.Children {
			walkTags(child, seen)
		}
	case Not:
		walkTags(e.Child, seen)
	}
}
