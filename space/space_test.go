package space

import (
	"errors"
	"testing"

	"github.com/mwantia/semfs/data"
	"github.com/mwantia/semfs/query"
)

// newTestSpace builds a marked space seeded like a small document folder:
// a tagged report, a draft note and an older file with a scalar year.
func newTestSpace(t *testing.T) (*Space, map[string]data.FileID) {
	t.Helper()

	m := NewManager()
	sp, err := m.Mark("/docs")
	if err != nil {
		t.Fatalf("Failed to mark '/docs': %v", err)
	}

	ids := map[string]data.FileID{
		"report.pdf": sp.AddFile("/docs/report.pdf"),
		"notes.txt":  sp.AddFile("/docs/notes.txt"),
		"old.txt":    sp.AddFile("/docs/old.txt"),
	}

	mustTag := func(id data.FileID, tag string) {
		if err := sp.Tag(id, tag); err != nil {
			t.Fatalf("Failed to tag %s with %q: %v", id, tag, err)
		}
	}

	mustTag(ids["report.pdf"], "project=alpha")
	mustTag(ids["notes.txt"], "draft")
	if err := sp.TagValue(ids["report.pdf"], "year", 2023); err != nil {
		t.Fatalf("Failed to set year on report: %v", err)
	}
	if err := sp.TagValue(ids["old.txt"], "year", 2020); err != nil {
		t.Fatalf("Failed to set year on old: %v", err)
	}

	return sp, ids
}

func mustResolve(t *testing.T, sp *Space, segments []string) data.FileSet {
	t.Helper()

	expr, err := sp.ResolveView(segments)
	if err != nil {
		t.Fatalf("Failed to resolve %v: %v", segments, err)
	}

	set, err := sp.Evaluate(expr)
	if err != nil {
		t.Fatalf("Failed to evaluate %v: %v", segments, err)
	}
	return set
}

func TestResolveView(t *testing.T) {
	sp, ids := newTestSpace(t)

	t.Run("PresenceAtom", func(tst *testing.T) {
		set := mustResolve(t, sp, []string{"project=alpha"})
		if len(set) != 1 || !set.Contains(ids["report.pdf"]) {
			tst.Errorf("Expected only report.pdf, got %v", set)
		}
	})

	t.Run("ScalarNarrowing", func(tst *testing.T) {
		set := mustResolve(t, sp, []string{"project=alpha", "year=2023"})
		if len(set) != 1 || !set.Contains(ids["report.pdf"]) {
			tst.Errorf("Expected only report.pdf, got %v", set)
		}
	})

	t.Run("ScalarRange", func(tst *testing.T) {
		set := mustResolve(t, sp, []string{"year=2019..2021"})
		if len(set) != 1 || !set.Contains(ids["old.txt"]) {
			tst.Errorf("Expected only old.txt, got %v", set)
		}
	})

	t.Run("OrderDoesNotMatter", func(tst *testing.T) {
		forward := mustResolve(t, sp, []string{"project=alpha", "year=2023"})
		reverse := mustResolve(t, sp, []string{"year=2023", "project=alpha"})
		if len(forward) != len(reverse) {
			tst.Fatalf("Segment order changed the result: %v vs %v", forward, reverse)
		}
		for id := range forward {
			if !reverse.Contains(id) {
				tst.Errorf("Segment order changed the result: %v vs %v", forward, reverse)
			}
		}
	})

	t.Run("EmptyIsFullSet", func(tst *testing.T) {
		set := mustResolve(t, sp, nil)
		if len(set) != 3 {
			tst.Errorf("Expected all three files at the space root, got %v", set)
		}
	})

	t.Run("BadSegment", func(tst *testing.T) {
		if _, err := sp.ResolveView([]string{"a||b"}); !errors.Is(err, data.ErrInvalidSegment) {
			tst.Errorf("Expected ErrInvalidSegment, got %v", err)
		}
	})
}

func TestListChildren(t *testing.T) {
	sp, _ := newTestSpace(t)

	t.Run("Root", func(tst *testing.T) {
		children, err := sp.ListChildren(nil)
		if err != nil {
			tst.Fatalf("Failed to list root children: %v", err)
		}

		want := []string{"draft", "project=alpha", "year"}
		if len(children) != len(want) {
			tst.Fatalf("Expected %v, got %v", want, children)
		}
		for i := range want {
			if children[i] != want[i] {
				tst.Errorf("Expected %v, got %v", want, children)
				break
			}
		}
	})

	t.Run("ConsumedTagExcluded", func(tst *testing.T) {
		children, err := sp.ListChildren([]string{"project=alpha"})
		if err != nil {
			tst.Fatalf("Failed to list children: %v", err)
		}

		for _, name := range children {
			if name == "project=alpha" {
				tst.Errorf("Consumed segment listed again: %v", children)
			}
		}
		// report.pdf still carries year, so narrowing by it stays offered
		found := false
		for _, name := range children {
			if name == "year" {
				found = true
			}
		}
		if !found {
			tst.Errorf("Expected 'year' among children, got %v", children)
		}
	})

	t.Run("EmptyResultHasNoChildren", func(tst *testing.T) {
		children, err := sp.ListChildren([]string{"draft", "year=2019..2021"})
		if err != nil {
			tst.Fatalf("Failed to list children: %v", err)
		}
		if len(children) != 0 {
			tst.Errorf("Expected no children for empty result, got %v", children)
		}
	})
}

func TestSavedViews(t *testing.T) {
	sp, ids := newTestSpace(t)

	if err := sp.SaveView("recent", []string{"year=2022..2026"}); err != nil {
		t.Fatalf("Failed to save view: %v", err)
	}

	t.Run("Substitution", func(tst *testing.T) {
		set := mustResolve(t, sp, []string{"recent"})
		if len(set) != 1 || !set.Contains(ids["report.pdf"]) {
			tst.Errorf("Expected only report.pdf through the view, got %v", set)
		}
	})

	t.Run("ViewNarrowsFurther", func(tst *testing.T) {
		set := mustResolve(t, sp, []string{"recent", "project=alpha"})
		if len(set) != 1 || !set.Contains(ids["report.pdf"]) {
			tst.Errorf("Expected only report.pdf, got %v", set)
		}
	})

	t.Run("ListedAtRoot", func(tst *testing.T) {
		children, err := sp.ListChildren(nil)
		if err != nil {
			tst.Fatalf("Failed to list root children: %v", err)
		}
		found := false
		for _, name := range children {
			if name == "recent" {
				found = true
			}
		}
		if !found {
			tst.Errorf("Expected saved view 'recent' at root, got %v", children)
		}
	})

	t.Run("InvalidSegmentsRejected", func(tst *testing.T) {
		if err := sp.SaveView("broken", []string{"a||b"}); !errors.Is(err, data.ErrInvalidSegment) {
			tst.Errorf("Expected ErrInvalidSegment, got %v", err)
		}
	})

	t.Run("Delete", func(tst *testing.T) {
		if err := sp.DeleteView("recent"); err != nil {
			tst.Fatalf("Failed to delete view: %v", err)
		}
		if err := sp.DeleteView("recent"); !errors.Is(err, data.ErrNotFound) {
			tst.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestMutationInvalidatesCachedViews(t *testing.T) {
	sp, ids := newTestSpace(t)

	first := mustResolve(t, sp, []string{"draft"})
	if len(first) != 1 {
		t.Fatalf("Expected one draft, got %v", first)
	}

	if err := sp.Tag(ids["old.txt"], "draft"); err != nil {
		t.Fatalf("Failed to tag old.txt: %v", err)
	}

	second := mustResolve(t, sp, []string{"draft"})
	if len(second) != 2 || !second.Contains(ids["old.txt"]) {
		t.Errorf("Expected the fresh tag to show up, got %v", second)
	}

	if err := sp.Untag(ids["old.txt"], "draft"); err != nil {
		t.Fatalf("Failed to untag old.txt: %v", err)
	}

	third := mustResolve(t, sp, []string{"draft"})
	if len(third) != 1 || third.Contains(ids["old.txt"]) {
		t.Errorf("Expected the untag to show up, got %v", third)
	}
}

func TestRenameTagReachesViews(t *testing.T) {
	sp, ids := newTestSpace(t)

	if err := sp.RenameTag("year", "published"); err != nil {
		t.Fatalf("Failed to rename tag: %v", err)
	}

	if set := mustResolve(t, sp, []string{"year=2023"}); len(set) != 0 {
		t.Errorf("Expected old tag name to match nothing, got %v", set)
	}
	set := mustResolve(t, sp, []string{"published=2023"})
	if len(set) != 1 || !set.Contains(ids["report.pdf"]) {
		t.Errorf("Expected report.pdf under the new name, got %v", set)
	}
}

func TestRemoveFileDropsFromViews(t *testing.T) {
	sp, ids := newTestSpace(t)

	if err := sp.RemoveFile(ids["report.pdf"]); err != nil {
		t.Fatalf("Failed to remove report.pdf: %v", err)
	}

	if set := mustResolve(t, sp, []string{"project=alpha"}); len(set) != 0 {
		t.Errorf("Expected removed file gone from presence view, got %v", set)
	}
	if set := sp.QueryRange("year", 2022, 2024); len(set) != 0 {
		t.Errorf("Expected removed file gone from interval index, got %v", set)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	sp, _ := newTestSpace(t)
	if err := sp.SaveView("recent", []string{"year=2022..2026"}); err != nil {
		t.Fatalf("Failed to save view: %v", err)
	}

	snap := sp.Export()
	if snap.Root != "/docs" {
		t.Errorf("Expected snapshot root '/docs', got %q", snap.Root)
	}

	m := NewManager()
	restored, err := m.Mark("/docs")
	if err != nil {
		t.Fatalf("Failed to mark restore target: %v", err)
	}
	if err := restored.Import(snap); err != nil {
		t.Fatalf("Failed to import snapshot: %v", err)
	}

	if restored.Len() != 3 {
		t.Errorf("Expected three files restored, got %d", restored.Len())
	}

	set := mustResolve(t, restored, []string{"project=alpha", "year=2023"})
	if len(set) != 1 {
		t.Errorf("Expected one file in the restored view, got %v", set)
	}

	// Scalar edges must land back in the interval index, not just the graph
	if set := restored.QueryRange("year", 2019, 2021); len(set) != 1 {
		t.Errorf("Expected restored interval index to answer, got %v", set)
	}

	if views := restored.Views(); len(views) != 1 || views[0] != "recent" {
		t.Errorf("Expected saved view restored, got %v", views)
	}
}

func TestImportRejectsForeignRoot(t *testing.T) {
	sp, _ := newTestSpace(t)
	snap := sp.Export()
	snap.Root = "/elsewhere"

	m := NewManager()
	target, err := m.Mark("/docs")
	if err != nil {
		t.Fatalf("Failed to mark restore target: %v", err)
	}
	target.AddFile("/docs/keep.txt")

	if err := target.Import(snap); !errors.Is(err, data.ErrPersistenceMismatch) {
		t.Fatalf("Expected ErrPersistenceMismatch, got %v", err)
	}
	if target.Len() != 1 {
		t.Errorf("Expected failed import to leave state untouched, got %d files", target.Len())
	}
}

func TestUntaggedFileSurvivesRoundTrip(t *testing.T) {
	m := NewManager()
	sp, err := m.Mark("/docs")
	if err != nil {
		t.Fatalf("Failed to mark '/docs': %v", err)
	}
	sp.AddFile("/docs/plain.txt")

	restoredHome := NewManager()
	restored, err := restoredHome.Mark("/docs")
	if err != nil {
		t.Fatalf("Failed to mark restore target: %v", err)
	}
	if err := restored.Import(sp.Export()); err != nil {
		t.Fatalf("Failed to import snapshot: %v", err)
	}

	if restored.Len() != 1 {
		t.Errorf("Expected untagged file to survive, got %d files", restored.Len())
	}
	if _, ok := restored.ResolveLocator("/docs/plain.txt"); !ok {
		t.Errorf("Expected locator to resolve after import")
	}
}

func TestEvaluateCacheServesClones(t *testing.T) {
	sp, ids := newTestSpace(t)

	expr, err := query.ParseSegment("draft")
	if err != nil {
		t.Fatalf("Failed to parse segment: %v", err)
	}

	first, err := sp.Evaluate(expr)
	if err != nil {
		t.Fatalf("Failed to evaluate: %v", err)
	}
	first.Add("intruder")

	second, err := sp.Evaluate(expr)
	if err != nil {
		t.Fatalf("Failed to evaluate: %v", err)
	}
	if second.Contains("intruder") {
		t.Errorf("Caller mutation leaked into the cache")
	}
	if !second.Contains(ids["notes.txt"]) {
		t.Errorf("Expected notes.txt in cached result, got %v", second)
	}
}
