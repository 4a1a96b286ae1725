package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mwantia/semfs/data"
)

// ParseSegment turns one virtual path segment into a predicate:
//
//	name           has(name)
//	!name          not(has(name))
//	a|b|c          or(has(a), has(b), has(c))
//	name=3         range(name, 3, 3)
//	name=3..7      range(name, 3, 7)
//	name=word      has("name=word")
//
// Non-numeric values after '=' fall back to plain presence tags whose name
// contains the '='; a tag is in the end just a name. Everything else fails
// with ErrInvalidSegment.
func ParseSegment(segment string) (Expression, error) {
	if segment == "" {
		return nil, fmt.Errorf("%w: empty segment", data.ErrInvalidSegment)
	}

	if negated, ok := strings.CutPrefix(segment, "!"); ok {
		child, err := parseBody(negated)
		if err != nil {
			return nil, err
		}
		return Not{Child: child}, nil
	}

	return parseBody(segment)
}

// ParseSegments parses every segment of a virtual sub-path and folds the
// results into one conjunction. Segment order never changes the result set.
func ParseSegments(segments []string) (Expression, error) {
	exprs := make([]Expression, 0, len(segments))
	for _, segment := range segments {
		expr, err := ParseSegment(segment)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}

	return Fold(exprs...), nil
}

func parseBody(body string) (Expression, error) {
	if body == "" || strings.ContainsAny(body, "/!") {
		return nil, fmt.Errorf("%w: %q", data.ErrInvalidSegment, body)
	}

	if strings.Contains(body, "|") {
		parts := strings.Split(body, "|")
		children := make([]Expression, 0, len(parts))
		for _, part := range parts {
			child, err := parseAtom(part)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return Or{Children: children}, nil
	}

	return parseAtom(body)
}

func parseAtom(atom string) (Expression, error) {
	if atom == "" {
		return nil, fmt.Errorf("%w: empty predicate", data.ErrInvalidSegment)
	}

	name, value, found := strings.Cut(atom, "=")
	if !found {
		return Has{Tag: atom}, nil
	}

	if name == "" || value == "" {
		return nil, fmt.Errorf("%w: %q", data.ErrInvalidSegment, atom)
	}

	if low, high, ok := parseScalar(value); ok {
		return Range{Tag: name, Low: low, High: high}, nil
	}

	// Non-numeric value: the whole atom is a presence tag name
	return Has{Tag: atom}, nil
}

// parseScalar accepts "3", "3.5" or "3..7" forms.
func parseScalar(value string) (float64, float64, bool) {
	if lowText, highText, found := strings.Cut(value, ".."); found {
		low, err1 := strconv.ParseFloat(lowText, 64)
		high, err2 := strconv.ParseFloat(highText, 64)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		if high < low {
			low, high = high, low
		}
		return low, high, true
	}

	point, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, 0, false
	}
	return point, point, true
}
