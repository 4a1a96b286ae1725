// Package snapshot defines the persisted-state boundary of the core: a
// serializable form of one semantic space's graph and the Store interface
// concrete encodings implement.
package snapshot

import (
	"github.com/mwantia/semfs/data"
)

// Record is one (locator, tag, value?) triple. A record with an empty Tag
// registers a bare, untagged file.
type Record struct {
	Locator string      `json:"locator"`
	Tag     string      `json:"tag,omitempty"`
	Value   *data.Value `json:"value,omitempty"`
}

// Snapshot is the exportable form of one semantic space partition. Views
// are persisted as the path segments they were saved from, not as compiled
// expressions, so the segment grammar stays the single source of truth.
type Snapshot struct {
	SpaceID data.SpaceID        `json:"space_id"`
	Root    string              `json:"root"`
	Views   map[string][]string `json:"views,omitempty"`
	Records []Record            `json:"records"`
}

// Len returns the number of distinct locators in the snapshot.
func (s *Snapshot) Len() int {
	seen := make(map[string]struct{})
	for _, record := range s.Records {
		seen[record.Locator] = struct{}{}
	}
	return len(seen)
}
