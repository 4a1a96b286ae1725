package data

import (
	"github.com/google/uuid"
)

// FileID is the stable identifier of a registered file. It never changes
// across tag mutation or rename; only RemoveFile retires it.
type FileID string

// SpaceID identifies one semantic space partition.
type SpaceID string

// Edge is one File-Tag association. At most one edge exists per
// (file, tag) pair; re-tagging updates the value in place.
type Edge struct {
	Tag   string `json:"tag"`
	Value *Value `json:"value,omitempty"`
}

// Value is the optional scalar carried by an edge. A point value stores
// Low == High; a range-valued edge stores a closed interval.
type Value struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Point wraps a single scalar into a degenerate interval.
func Point(v float64) *Value {
	return &Value{Low: v, High: v}
}

// Interval wraps a closed scalar range.
func Interval(low, high float64) *Value {
	if high < low {
		low, high = high, low
	}
	return &Value{Low: low, High: high}
}

// IsPoint reports whether the value is a degenerate interval.
func (v *Value) IsPoint() bool {
	return v.Low == v.High
}

// FileSet is the result currency of the query layer. Sets, not sequences;
// iteration order is deliberately unspecified.
type FileSet map[FileID]struct{}

func NewFileSet(ids ...FileID) FileSet {
	set := make(FileSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s FileSet) Contains(id FileID) bool {
	_, ok := s[id]
	return ok
}

func (s FileSet) Add(id FileID) {
	s[id] = struct{}{}
}

// Clone returns an independent copy of the set.
func (s FileSet) Clone() FileSet {
	out := make(FileSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// NewFileID generates a new time-ordered unique file identifier.
func NewFileID() FileID {
	return FileID(uuid.Must(uuid.NewV7()).String())
}

// NewSpaceID generates a new time-ordered unique space identifier.
func NewSpaceID() SpaceID {
	return SpaceID(uuid.Must(uuid.NewV7()).String())
}
