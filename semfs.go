// Package semfs implements a semantic namespace over a physical file tree:
// designated directories become semantic spaces whose subdirectories are
// tag queries instead of physical folders, while everything outside them
// passes through to physical storage untouched.
package semfs

import (
	"context"
	"fmt"

	"github.com/mwantia/semfs/data"
	"github.com/mwantia/semfs/log"
	"github.com/mwantia/semfs/physical"
	"github.com/mwantia/semfs/space"
)

// SemanticFileSystem is the single entry point consumed by a
// filesystem-call adapter. It decides for every path whether it falls under
// a semantic space and either delegates to the space manager or to the
// physical store collaborator.
//
// The adapter may call every method concurrently; per-space state is locked
// inside the spaces themselves and distinct spaces never contend.
type SemanticFileSystem struct {
	manager *space.Manager
	phys    physical.Store
	logger  *log.Logger
}

// Option configures the filesystem.
type Option func(*SemanticFileSystem)

// WithLogger attaches a logger; by default nothing is logged.
func WithLogger(logger *log.Logger) Option {
	return func(fs *SemanticFileSystem) {
		fs.logger = logger
	}
}

// New creates a semantic filesystem over the given physical store.
func New(phys physical.Store, opts ...Option) *SemanticFileSystem {
	fs := &SemanticFileSystem{
		manager: space.NewManager(),
		phys:    phys,
	}

	for _, opt := range opts {
		opt(fs)
	}

	return fs
}

// Manager exposes the space registry for direct space-level access
// (evaluate, export) by the admin surface.
func (fs *SemanticFileSystem) Manager() *space.Manager {
	return fs.manager
}

// Mark designates an existing physical directory as a semantic space root
// and registers its current files with the new graph partition, untagged.
// Fails with ErrAlreadySemantic / ErrNestedSpace on nesting violations and
// ErrNotFound / ErrNotDirectory when the physical directory is missing.
func (fs *SemanticFileSystem) Mark(ctx context.Context, path string) (data.SpaceID, error) {
	clean, err := data.CleanPath(path)
	if err != nil {
		return "", err
	}

	entry, err := fs.phys.Stat(ctx, clean)
	if err != nil {
		return "", err
	}
	if !entry.Dir {
		return "", fmt.Errorf("%w: %s", data.ErrNotDirectory, clean)
	}

	sp, err := fs.manager.Mark(clean)
	if err != nil {
		return "", err
	}

	// Seed the partition with the directory's current files so the space
	// root lists them immediately.
	children, err := fs.phys.List(ctx, clean)
	if err != nil {
		fs.manager.Unmark(clean)
		return "", err
	}
	for _, child := range children {
		if child.Dir {
			continue
		}
		sp.AddFile(clean + "/" + child.Name)
	}

	fs.debug("marked %s as semantic space %s", clean, sp.ID())
	return sp.ID(), nil
}

// Unmark removes the semantic designation from a directory, tearing down
// its graph partition. Physical files stay untouched.
func (fs *SemanticFileSystem) Unmark(ctx context.Context, path string) error {
	clean, err := data.CleanPath(path)
	if err != nil {
		return err
	}

	if err := fs.manager.Unmark(clean); err != nil {
		return err
	}

	fs.debug("unmarked semantic space at %s", clean)
	return nil
}

// Resolve walks a virtual path and classifies it. Outside every space root
// the path is physical; at or below a space root, the remainder becomes
// query segments, except that a final segment matching a file visible in
// the narrowed result set names that file.
func (fs *SemanticFileSystem) Resolve(ctx context.Context, path string) (*Resolution, error) {
	clean, err := data.CleanPath(path)
	if err != nil {
		return nil, err
	}

	sp, rel, matched := fs.manager.Match(clean)
	if !matched {
		return &Resolution{Kind: KindPhysical, Locator: clean}, nil
	}

	segments := data.SplitPath(rel)
	if len(segments) == 0 {
		return &Resolution{Kind: KindVirtualDir, Space: sp.ID()}, nil
	}

	// A final segment naming a visible file wins over its reading as a
	// predicate; tags and files share the namespace but files are leaves.
	if id, locator, found := fs.lookupFile(sp, segments); found {
		return &Resolution{
			Kind:     KindVirtualFile,
			Locator:  locator,
			Space:    sp.ID(),
			Segments: segments[:len(segments)-1],
			File:     id,
		}, nil
	}

	if _, err := sp.ResolveView(segments); err != nil {
		return nil, err
	}

	return &Resolution{Kind: KindVirtualDir, Space: sp.ID(), Segments: segments}, nil
}

// lookupFile checks whether the last segment matches the base name of a
// file inside the result set narrowed by the preceding segments.
func (fs *SemanticFileSystem) lookupFile(sp *space.Space, segments []string) (data.FileID, string, bool) {
	name := segments[len(segments)-1]

	expr, err := sp.ResolveView(segments[:len(segments)-1])
	if err != nil {
		return "", "", false
	}

	result, err := sp.Evaluate(expr)
	if err != nil {
		return "", "", false
	}

	for id := range result {
		locator, err := sp.Locator(id)
		if err != nil {
			continue
		}
		if data.BaseName(locator) == name {
			return id, locator, true
		}
	}

	return "", "", false
}

func (fs *SemanticFileSystem) debug(msg string, args ...any) {
	if fs.logger != nil {
		fs.logger.Debug(msg, args...)
	}
}
