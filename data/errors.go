package data

import (
	"errors"
	"fmt"
)

// Standard semfs errors returned by the core. The filesystem-call adapter
// decides the host-visible mapping (e.g. ErrNotFound -> "no such entry").
var (
	// Path resolution errors
	ErrInvalidPath  = errors.New("semfs: invalid path detected")
	ErrNotFound     = errors.New("semfs: entry does not exist")
	ErrNotDirectory = errors.New("semfs: not a directory")
	ErrExist        = errors.New("semfs: entry already exists")

	// Semantic space lifecycle errors. ErrNestedSpace wraps
	// ErrAlreadySemantic and ErrSpaceNotFound wraps ErrNotFound, so callers
	// may match on either the specific or the broad kind.
	ErrAlreadySemantic = errors.New("semfs: path already belongs to a semantic space")
	ErrNestedSpace     = fmt.Errorf("%w: spaces must not nest", ErrAlreadySemantic)
	ErrSpaceNotFound   = fmt.Errorf("%w: semantic space gone", ErrNotFound)

	// Query errors
	ErrInvalidSegment = errors.New("semfs: path segment is not a valid predicate")

	// Persistence boundary errors
	ErrPersistenceMismatch = errors.New("semfs: snapshot references inconsistent state")

	// ErrInternalInconsistency marks a broken store/index invariant.
	// The core panics with it instead of returning it: a disagreement
	// between graph and index cannot be reasoned about locally and would
	// poison every subsequent query.
	ErrInternalInconsistency = errors.New("semfs: graph and interval index disagree")
)
