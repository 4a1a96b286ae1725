package semfs

import (
	"github.com/mwantia/semfs/data"
)

// ResolutionKind discriminates what a virtual path turned out to be.
type ResolutionKind int

const (
	// KindPhysical: the path lies outside every semantic space and maps
	// 1:1 onto the physical store.
	KindPhysical ResolutionKind = iota

	// KindVirtualDir: the path is a view inside a semantic space; its
	// children are query results, not physical subdirectories.
	KindVirtualDir

	// KindVirtualFile: the path names a file appearing inside a view.
	// The file itself is the same entity as the one at its physical
	// locator - a reference, never a copy.
	KindVirtualFile
)

func (k ResolutionKind) String() string {
	switch k {
	case KindPhysical:
		return "physical"
	case KindVirtualDir:
		return "virtual-dir"
	case KindVirtualFile:
		return "virtual-file"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of resolving one virtual path.
type Resolution struct {
	Kind ResolutionKind

	// Locator is set for KindPhysical and KindVirtualFile: the single
	// owning physical location of the object.
	Locator string

	// Space and Segments are set for the virtual kinds.
	Space    data.SpaceID
	Segments []string

	// File is set for KindVirtualFile.
	File data.FileID
}

// DirEntry is one entry of a directory listing, physical or virtual.
type DirEntry struct {
	Name string
	Dir  bool
}
