package semfs

import (
	"context"
	"fmt"
	"sort"

	"github.com/mwantia/semfs/data"
	"github.com/mwantia/semfs/snapshot"
	"github.com/mwantia/semfs/space"
)

// ReadDir lists a directory. Outside semantic spaces the physical listing
// passes through; inside, the "subdirectories" are the tag names still
// discriminating among the current result set and the "files" are the
// results themselves. Listing twice without mutation yields the same set.
func (fs *SemanticFileSystem) ReadDir(ctx context.Context, path string) ([]DirEntry, error) {
	res, err := fs.Resolve(ctx, path)
	if err != nil {
		return nil, err
	}

	switch res.Kind {
	case KindPhysical:
		children, err := fs.phys.List(ctx, res.Locator)
		if err != nil {
			return nil, err
		}

		entries := make([]DirEntry, 0, len(children))
		for _, child := range children {
			entries = append(entries, DirEntry{Name: child.Name, Dir: child.Dir})
		}
		return entries, nil

	case KindVirtualDir:
		return fs.readVirtualDir(res)

	default:
		return nil, fmt.Errorf("%w: %s", data.ErrNotDirectory, path)
	}
}

func (fs *SemanticFileSystem) readVirtualDir(res *Resolution) ([]DirEntry, error) {
	sp, err := fs.manager.Get(res.Space)
	if err != nil {
		return nil, err
	}

	tags, err := sp.ListChildren(res.Segments)
	if err != nil {
		return nil, err
	}

	expr, err := sp.ResolveView(res.Segments)
	if err != nil {
		return nil, err
	}
	result, err := sp.Evaluate(expr)
	if err != nil {
		return nil, err
	}

	entries := make([]DirEntry, 0, len(tags)+len(result))
	for _, tag := range tags {
		entries = append(entries, DirEntry{Name: tag, Dir: true})
	}
	for id := range result {
		locator, err := sp.Locator(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, DirEntry{Name: data.BaseName(locator)})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// Stat classifies a single path as directory or file.
func (fs *SemanticFileSystem) Stat(ctx context.Context, path string) (*DirEntry, error) {
	res, err := fs.Resolve(ctx, path)
	if err != nil {
		return nil, err
	}

	switch res.Kind {
	case KindPhysical:
		entry, err := fs.phys.Stat(ctx, res.Locator)
		if err != nil {
			return nil, err
		}
		return &DirEntry{Name: entry.Name, Dir: entry.Dir}, nil

	case KindVirtualDir:
		return &DirEntry{Name: data.BaseName(path), Dir: true}, nil

	default:
		return &DirEntry{Name: data.BaseName(res.Locator)}, nil
	}
}

// Tag attaches a presence-only tag to the file a path names. The path may
// be the file's physical location inside a space root or any virtual path
// it appears under; both address the same file entity. Files not yet
// registered with the space are registered on first tagging.
func (fs *SemanticFileSystem) Tag(ctx context.Context, path, tag string) error {
	sp, id, err := fs.fileForPath(ctx, path)
	if err != nil {
		return err
	}
	return sp.Tag(id, tag)
}

// TagValue attaches a tag carrying a scalar point value.
func (fs *SemanticFileSystem) TagValue(ctx context.Context, path, tag string, value float64) error {
	sp, id, err := fs.fileForPath(ctx, path)
	if err != nil {
		return err
	}
	return sp.TagValue(id, tag, value)
}

// TagRange attaches a tag carrying a closed scalar interval.
func (fs *SemanticFileSystem) TagRange(ctx context.Context, path, tag string, low, high float64) error {
	sp, id, err := fs.fileForPath(ctx, path)
	if err != nil {
		return err
	}
	return sp.TagRange(id, tag, low, high)
}

// Untag removes a tag from the file a path names. Removing an absent tag
// is a no-op.
func (fs *SemanticFileSystem) Untag(ctx context.Context, path, tag string) error {
	sp, id, err := fs.fileForPath(ctx, path)
	if err != nil {
		return err
	}
	return sp.Untag(id, tag)
}

// TagsOf returns the edges of the file a path names.
func (fs *SemanticFileSystem) TagsOf(ctx context.Context, path string) ([]data.Edge, error) {
	sp, id, err := fs.fileForPath(ctx, path)
	if err != nil {
		return nil, err
	}
	return sp.TagsOf(id)
}

// Unlink removes a file. Through a virtual path or its physical one, the
// single underlying file is deleted and disappears from every view it
// appeared in; no stale entry survives.
func (fs *SemanticFileSystem) Unlink(ctx context.Context, path string) error {
	res, err := fs.Resolve(ctx, path)
	if err != nil {
		return err
	}

	switch res.Kind {
	case KindVirtualFile:
		sp, err := fs.manager.Get(res.Space)
		if err != nil {
			return err
		}
		if err := sp.RemoveFile(res.File); err != nil {
			return err
		}
		return fs.phys.Remove(ctx, res.Locator)

	case KindPhysical:
		return fs.phys.Remove(ctx, res.Locator)

	default:
		return fmt.Errorf("%w: %s is a virtual directory", data.ErrNotDirectory, path)
	}
}

// Rename moves a file. Inside a space the graph keeps the file's ID and all
// its edges; only the locator changes, so every view keeps showing it under
// the new name.
func (fs *SemanticFileSystem) Rename(ctx context.Context, oldPath, newPath string) error {
	res, err := fs.Resolve(ctx, oldPath)
	if err != nil {
		return err
	}

	newClean, err := data.CleanPath(newPath)
	if err != nil {
		return err
	}

	if res.Kind != KindVirtualFile {
		return fs.phys.Rename(ctx, res.Locator, newClean)
	}

	sp, err := fs.manager.Get(res.Space)
	if err != nil {
		return err
	}

	newLocator := sp.Root() + "/" + data.BaseName(newClean)
	if err := fs.phys.Rename(ctx, res.Locator, newLocator); err != nil {
		return err
	}

	return sp.RenameFile(res.File, newLocator)
}

// RenameTag renames a tag within the space rooted at spacePath.
func (fs *SemanticFileSystem) RenameTag(ctx context.Context, spacePath, oldName, newName string) error {
	sp, err := fs.spaceAt(spacePath)
	if err != nil {
		return err
	}
	return sp.RenameTag(oldName, newName)
}

// SaveView persists a named view in the space rooted at spacePath.
func (fs *SemanticFileSystem) SaveView(ctx context.Context, spacePath, name string, segments []string) error {
	sp, err := fs.spaceAt(spacePath)
	if err != nil {
		return err
	}
	return sp.SaveView(name, segments)
}

// SaveSpace exports the space rooted at spacePath into a snapshot store.
func (fs *SemanticFileSystem) SaveSpace(ctx context.Context, store snapshot.Store, spacePath string) error {
	sp, err := fs.spaceAt(spacePath)
	if err != nil {
		return err
	}
	return store.Save(ctx, sp.Export())
}

// LoadSpace restores the space rooted at spacePath from a snapshot store,
// rebuilding its interval indexes from scratch.
func (fs *SemanticFileSystem) LoadSpace(ctx context.Context, store snapshot.Store, spacePath string) error {
	sp, err := fs.spaceAt(spacePath)
	if err != nil {
		return err
	}

	snap, err := store.Load(ctx, sp.Root())
	if err != nil {
		return err
	}

	return sp.Import(snap)
}

// fileForPath resolves a path to its owning space and file ID, registering
// the physical file with the space when it has not been seen before.
func (fs *SemanticFileSystem) fileForPath(ctx context.Context, path string) (*space.Space, data.FileID, error) {
	clean, err := data.CleanPath(path)
	if err != nil {
		return nil, "", err
	}

	sp, rel, matched := fs.manager.Match(clean)
	if !matched {
		return nil, "", fmt.Errorf("%w: %s is outside every semantic space", data.ErrNotFound, clean)
	}

	segments := data.SplitPath(rel)
	if len(segments) == 0 {
		return nil, "", fmt.Errorf("%w: %s is a space root", data.ErrNotDirectory, clean)
	}

	if id, _, found := fs.lookupFile(sp, segments); found {
		return sp, id, nil
	}

	// Unregistered: the owning locator is always root/basename, whatever
	// tags decorate the path it was addressed by.
	locator := sp.Root() + "/" + segments[len(segments)-1]
	if _, err := fs.phys.Stat(ctx, locator); err != nil {
		return nil, "", err
	}

	return sp, sp.AddFile(locator), nil
}

func (fs *SemanticFileSystem) spaceAt(spacePath string) (*space.Space, error) {
	clean, err := data.CleanPath(spacePath)
	if err != nil {
		return nil, err
	}

	sp, exists := fs.manager.LookupRoot(clean)
	if !exists {
		return nil, fmt.Errorf("%w: %s", data.ErrSpaceNotFound, clean)
	}

	return sp, nil
}
