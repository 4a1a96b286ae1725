package space

import (
	"errors"
	"testing"

	"github.com/mwantia/semfs/data"
)

func TestMarkUnmark(t *testing.T) {
	m := NewManager()

	sp, err := m.Mark("/docs")
	if err != nil {
		t.Fatalf("Failed to mark '/docs': %v", err)
	}
	if sp.Root() != "/docs" {
		t.Errorf("Expected root '/docs', got %q", sp.Root())
	}

	t.Run("DuplicateMark", func(tst *testing.T) {
		if _, err := m.Mark("/docs"); !errors.Is(err, data.ErrAlreadySemantic) {
			tst.Errorf("Expected ErrAlreadySemantic, got %v", err)
		}
	})

	t.Run("NestedInside", func(tst *testing.T) {
		if _, err := m.Mark("/docs/sub"); !errors.Is(err, data.ErrNestedSpace) {
			tst.Errorf("Expected ErrNestedSpace, got %v", err)
		}
	})

	t.Run("WouldContain", func(tst *testing.T) {
		if _, err := m.Mark("/"); !errors.Is(err, data.ErrNestedSpace) {
			tst.Errorf("Expected ErrNestedSpace, got %v", err)
		}
	})

	t.Run("SiblingIsFine", func(tst *testing.T) {
		if _, err := m.Mark("/music"); err != nil {
			tst.Errorf("Failed to mark sibling root: %v", err)
		}
	})

	t.Run("FailedMarkLeavesRegistryIntact", func(tst *testing.T) {
		if len(m.Spaces()) != 2 {
			tst.Errorf("Expected two registered spaces, got %d", len(m.Spaces()))
		}
	})

	if err := m.Unmark("/docs"); err != nil {
		t.Fatalf("Failed to unmark '/docs': %v", err)
	}
	if err := m.Unmark("/docs"); !errors.Is(err, data.ErrSpaceNotFound) {
		t.Errorf("Expected ErrSpaceNotFound on second unmark, got %v", err)
	}
}

// A destroyed space must fail lookups with a not-found error; holding the
// old ID grants nothing after teardown.
func TestUnmarkedSpaceIsGone(t *testing.T) {
	m := NewManager()

	sp, err := m.Mark("/docs")
	if err != nil {
		t.Fatalf("Failed to mark '/docs': %v", err)
	}
	id := sp.ID()

	if err := m.Unmark("/docs"); err != nil {
		t.Fatalf("Failed to unmark '/docs': %v", err)
	}

	if _, err := m.Get(id); !errors.Is(err, data.ErrSpaceNotFound) {
		t.Errorf("Expected ErrSpaceNotFound, got %v", err)
	}
	if _, err := m.Evaluate(id, nil); !errors.Is(err, data.ErrNotFound) {
		t.Errorf("Expected a not-found error, got %v", err)
	}
}

func TestMatch(t *testing.T) {
	m := NewManager()
	if _, err := m.Mark("/docs"); err != nil {
		t.Fatalf("Failed to mark '/docs': %v", err)
	}

	tests := []struct {
		path  string
		found bool
		rel   string
	}{
		{"/docs", true, ""},
		{"/docs/draft/year=2023", true, "draft/year=2023"},
		{"/documents", false, ""},
		{"/music/track.mp3", false, ""},
	}

	for _, test := range tests {
		t.Run(test.path, func(tst *testing.T) {
			sp, rel, found := m.Match(test.path)
			if found != test.found {
				tst.Fatalf("Expected found=%v for %q", test.found, test.path)
			}
			if !found {
				return
			}
			if sp.Root() != "/docs" {
				tst.Errorf("Expected root '/docs', got %q", sp.Root())
			}
			if rel != test.rel {
				tst.Errorf("Expected rel %q, got %q", test.rel, rel)
			}
		})
	}
}

func TestReMarkAfterUnmarkStartsEmpty(t *testing.T) {
	m := NewManager()

	sp, err := m.Mark("/docs")
	if err != nil {
		t.Fatalf("Failed to mark '/docs': %v", err)
	}
	sp.AddFile("/docs/report.pdf")

	if err := m.Unmark("/docs"); err != nil {
		t.Fatalf("Failed to unmark '/docs': %v", err)
	}

	again, err := m.Mark("/docs")
	if err != nil {
		t.Fatalf("Failed to re-mark '/docs': %v", err)
	}
	if again.Len() != 0 {
		t.Errorf("Expected fresh partition, got %d files", again.Len())
	}
	if again.ID() == sp.ID() {
		t.Errorf("Expected a new space identity after re-mark")
	}
}
