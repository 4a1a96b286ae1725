package semfs

import (
	"context"
	"errors"
	"testing"

	"github.com/mwantia/semfs/data"
	"github.com/mwantia/semfs/physical"
	"github.com/mwantia/semfs/snapshot"
)

// newTestFS builds a filesystem with /docs marked as a semantic space over
// three seeded files plus an unrelated physical tree under /music.
func newTestFS(t *testing.T) (*SemanticFileSystem, *physical.MemoryStore) {
	t.Helper()
	ctx := context.Background()

	phys := physical.NewMemoryStore()
	for _, dir := range []string{"/docs", "/music"} {
		if err := phys.MkDir(dir); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	for _, file := range []string{"/docs/report.pdf", "/docs/notes.txt", "/docs/old.txt", "/music/track.mp3"} {
		if err := phys.Create(file); err != nil {
			t.Fatalf("Failed to create %s: %v", file, err)
		}
	}

	fs := New(phys)
	if _, err := fs.Mark(ctx, "/docs"); err != nil {
		t.Fatalf("Failed to mark '/docs': %v", err)
	}

	mustTag := func(path, tag string) {
		if err := fs.Tag(ctx, path, tag); err != nil {
			t.Fatalf("Failed to tag %s with %q: %v", path, tag, err)
		}
	}
	mustTag("/docs/report.pdf", "project=alpha")
	mustTag("/docs/notes.txt", "draft")
	if err := fs.TagValue(ctx, "/docs/report.pdf", "year", 2023); err != nil {
		t.Fatalf("Failed to set year: %v", err)
	}
	if err := fs.TagValue(ctx, "/docs/old.txt", "year", 2020); err != nil {
		t.Fatalf("Failed to set year: %v", err)
	}

	return fs, phys
}

func entryNames(entries []DirEntry) []string {
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names
}

func TestMarkRequiresDirectory(t *testing.T) {
	ctx := context.Background()
	phys := physical.NewMemoryStore()
	if err := phys.MkDir("/docs"); err != nil {
		t.Fatalf("Failed to create '/docs': %v", err)
	}
	if err := phys.Create("/docs/file.txt"); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	fs := New(phys)

	if _, err := fs.Mark(ctx, "/missing"); !errors.Is(err, data.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing path, got %v", err)
	}
	if _, err := fs.Mark(ctx, "/docs/file.txt"); !errors.Is(err, data.ErrNotDirectory) {
		t.Errorf("Expected ErrNotDirectory for a file, got %v", err)
	}
}

func TestMarkSeedsExistingFiles(t *testing.T) {
	fs, _ := newTestFS(t)
	ctx := context.Background()

	entries, err := fs.ReadDir(ctx, "/docs")
	if err != nil {
		t.Fatalf("Failed to read space root: %v", err)
	}

	names := entryNames(entries)
	for _, want := range []string{"notes.txt", "old.txt", "report.pdf"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected %s in space root, got %v", want, names)
		}
	}
}

func TestResolveKinds(t *testing.T) {
	fs, _ := newTestFS(t)
	ctx := context.Background()

	tests := []struct {
		path string
		kind ResolutionKind
	}{
		{"/music", KindPhysical},
		{"/music/track.mp3", KindPhysical},
		{"/docs", KindVirtualDir},
		{"/docs/draft", KindVirtualDir},
		{"/docs/year=2023", KindVirtualDir},
		{"/docs/report.pdf", KindVirtualFile},
		{"/docs/year=2023/report.pdf", KindVirtualFile},
	}

	for _, test := range tests {
		t.Run(test.path, func(tst *testing.T) {
			res, err := fs.Resolve(ctx, test.path)
			if err != nil {
				tst.Fatalf("Failed to resolve %s: %v", test.path, err)
			}
			if res.Kind != test.kind {
				tst.Errorf("Expected %s, got %s", test.kind, res.Kind)
			}
		})
	}

	t.Run("FileNotInNarrowedSet", func(tst *testing.T) {
		// notes.txt carries no year, so it is not a file under year=2023;
		// the segment reading as a predicate wins.
		res, err := fs.Resolve(ctx, "/docs/year=2023/notes.txt")
		if err != nil {
			tst.Fatalf("Failed to resolve: %v", err)
		}
		if res.Kind != KindVirtualDir {
			tst.Errorf("Expected KindVirtualDir, got %s", res.Kind)
		}
	})
}

func TestReadDirVirtual(t *testing.T) {
	fs, _ := newTestFS(t)
	ctx := context.Background()

	entries, err := fs.ReadDir(ctx, "/docs/year=2023")
	if err != nil {
		t.Fatalf("Failed to read virtual dir: %v", err)
	}

	var dirs, files []string
	for _, entry := range entries {
		if entry.Dir {
			dirs = append(dirs, entry.Name)
		} else {
			files = append(files, entry.Name)
		}
	}

	if len(files) != 1 || files[0] != "report.pdf" {
		t.Errorf("Expected files [report.pdf], got %v", files)
	}
	// report.pdf still carries project=alpha; year is consumed
	if len(dirs) != 1 || dirs[0] != "project=alpha" {
		t.Errorf("Expected dirs [project=alpha], got %v", dirs)
	}

	t.Run("Deterministic", func(tst *testing.T) {
		again, err := fs.ReadDir(ctx, "/docs/year=2023")
		if err != nil {
			tst.Fatalf("Failed to re-read virtual dir: %v", err)
		}
		if len(again) != len(entries) {
			tst.Fatalf("Listing changed between calls: %v vs %v", entries, again)
		}
		for i := range entries {
			if entries[i] != again[i] {
				tst.Errorf("Listing changed between calls: %v vs %v", entries, again)
				break
			}
		}
	})
}

func TestReadDirPhysicalPassThrough(t *testing.T) {
	fs, _ := newTestFS(t)
	ctx := context.Background()

	entries, err := fs.ReadDir(ctx, "/music")
	if err != nil {
		t.Fatalf("Failed to read physical dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "track.mp3" {
		t.Errorf("Expected [track.mp3], got %v", entryNames(entries))
	}
}

// Physical and virtual paths into a space address the same file entity:
// tags applied through one are observable through every other.
func TestPathAliasing(t *testing.T) {
	fs, phys := newTestFS(t)
	ctx := context.Background()

	t.Run("TagViaPhysicalVisibleInView", func(tst *testing.T) {
		if err := fs.Tag(ctx, "/docs/old.txt", "archive"); err != nil {
			tst.Fatalf("Failed to tag via physical path: %v", err)
		}

		entries, err := fs.ReadDir(ctx, "/docs/archive")
		if err != nil {
			tst.Fatalf("Failed to read view: %v", err)
		}
		names := entryNames(entries)
		found := false
		for _, name := range names {
			if name == "old.txt" {
				found = true
			}
		}
		if !found {
			tst.Errorf("Expected old.txt under /docs/archive, got %v", names)
		}
	})

	t.Run("TagViaVirtualPathSameEntity", func(tst *testing.T) {
		if err := fs.Tag(ctx, "/docs/year=2023/report.pdf", "final"); err != nil {
			tst.Fatalf("Failed to tag via virtual path: %v", err)
		}

		edges, err := fs.TagsOf(ctx, "/docs/report.pdf")
		if err != nil {
			tst.Fatalf("Failed to read tags via physical path: %v", err)
		}
		found := false
		for _, edge := range edges {
			if edge.Tag == "final" {
				found = true
			}
		}
		if !found {
			tst.Errorf("Expected 'final' on the physical alias, got %v", edges)
		}
	})

	t.Run("UnlinkViaVirtualRemovesBoth", func(tst *testing.T) {
		if err := fs.Unlink(ctx, "/docs/draft/notes.txt"); err != nil {
			tst.Fatalf("Failed to unlink via virtual path: %v", err)
		}

		if _, err := phys.Stat(ctx, "/docs/notes.txt"); !errors.Is(err, data.ErrNotFound) {
			tst.Errorf("Expected physical entry gone, got %v", err)
		}

		entries, err := fs.ReadDir(ctx, "/docs/draft")
		if err != nil {
			tst.Fatalf("Failed to read view: %v", err)
		}
		for _, entry := range entries {
			if entry.Name == "notes.txt" {
				tst.Errorf("Unlinked file still listed in view: %v", entryNames(entries))
			}
		}
	})
}

func TestRenameKeepsTags(t *testing.T) {
	fs, _ := newTestFS(t)
	ctx := context.Background()

	if err := fs.Rename(ctx, "/docs/report.pdf", "/docs/final.pdf"); err != nil {
		t.Fatalf("Failed to rename: %v", err)
	}

	edges, err := fs.TagsOf(ctx, "/docs/final.pdf")
	if err != nil {
		t.Fatalf("Failed to read tags after rename: %v", err)
	}
	if len(edges) != 2 {
		t.Errorf("Expected both edges to survive the rename, got %v", edges)
	}

	entries, err := fs.ReadDir(ctx, "/docs/year=2023")
	if err != nil {
		t.Fatalf("Failed to read view: %v", err)
	}
	found := false
	for _, entry := range entries {
		if entry.Name == "final.pdf" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected final.pdf in the view after rename, got %v", entryNames(entries))
	}
}

func TestUnmarkLeavesPhysicalFiles(t *testing.T) {
	fs, _ := newTestFS(t)
	ctx := context.Background()

	if err := fs.Unmark(ctx, "/docs"); err != nil {
		t.Fatalf("Failed to unmark: %v", err)
	}

	res, err := fs.Resolve(ctx, "/docs/report.pdf")
	if err != nil {
		t.Fatalf("Failed to resolve after unmark: %v", err)
	}
	if res.Kind != KindPhysical {
		t.Errorf("Expected KindPhysical after unmark, got %s", res.Kind)
	}

	entry, err := fs.Stat(ctx, "/docs/report.pdf")
	if err != nil {
		t.Fatalf("Failed to stat after unmark: %v", err)
	}
	if entry.Dir {
		t.Errorf("Expected a file entry, got a directory")
	}
}

func TestSaveLoadSpace(t *testing.T) {
	fs, _ := newTestFS(t)
	ctx := context.Background()
	store := snapshot.NewMemoryStore()

	if err := fs.SaveSpace(ctx, store, "/docs"); err != nil {
		t.Fatalf("Failed to save space: %v", err)
	}

	// Lose the in-memory state entirely, then restore it
	if err := fs.Unmark(ctx, "/docs"); err != nil {
		t.Fatalf("Failed to unmark: %v", err)
	}
	if _, err := fs.Mark(ctx, "/docs"); err != nil {
		t.Fatalf("Failed to re-mark: %v", err)
	}
	if err := fs.LoadSpace(ctx, store, "/docs"); err != nil {
		t.Fatalf("Failed to load space: %v", err)
	}

	entries, err := fs.ReadDir(ctx, "/docs/year=2019..2021")
	if err != nil {
		t.Fatalf("Failed to read restored view: %v", err)
	}
	names := entryNames(entries)
	found := false
	for _, name := range names {
		if name == "old.txt" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected old.txt in the restored view, got %v", names)
	}

	t.Run("MissingSnapshot", func(tst *testing.T) {
		if err := fs.LoadSpace(ctx, store, "/music"); !errors.Is(err, data.ErrSpaceNotFound) {
			tst.Errorf("Expected ErrSpaceNotFound for unmarked path, got %v", err)
		}
	})
}

func TestTagOutsideSpaceFails(t *testing.T) {
	fs, _ := newTestFS(t)
	ctx := context.Background()

	if err := fs.Tag(ctx, "/music/track.mp3", "rock"); !errors.Is(err, data.ErrNotFound) {
		t.Errorf("Expected ErrNotFound outside spaces, got %v", err)
	}
}
