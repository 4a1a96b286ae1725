package cmd

import (
	"context"
	"io"

	semfs "github.com/mwantia/semfs"
	"github.com/mwantia/semfs/data"
)

// API is the slice of the semantic filesystem the admin commands operate
// on. *semfs.SemanticFileSystem satisfies it directly.
type API interface {
	// Mark designates a physical directory as a semantic space root.
	Mark(ctx context.Context, path string) (data.SpaceID, error)

	// Unmark tears down the semantic space rooted at path.
	Unmark(ctx context.Context, path string) error

	// Resolve classifies a virtual path.
	Resolve(ctx context.Context, path string) (*semfs.Resolution, error)

	// ReadDir lists a physical or virtual directory.
	ReadDir(ctx context.Context, path string) ([]semfs.DirEntry, error)

	// Stat classifies a single path.
	Stat(ctx context.Context, path string) (*semfs.DirEntry, error)

	// Tag attaches a presence-only tag to the file at path.
	Tag(ctx context.Context, path, tag string) error

	// TagValue attaches a tag carrying a scalar point value.
	TagValue(ctx context.Context, path, tag string, value float64) error

	// TagRange attaches a tag carrying a closed scalar interval.
	TagRange(ctx context.Context, path, tag string, low, high float64) error

	// Untag removes a tag from the file at path.
	Untag(ctx context.Context, path, tag string) error

	// TagsOf returns the edges of the file at path.
	TagsOf(ctx context.Context, path string) ([]data.Edge, error)

	// Unlink removes a file through any of its paths.
	Unlink(ctx context.Context, path string) error

	// SaveView persists a named view in the space rooted at spacePath.
	SaveView(ctx context.Context, spacePath, name string, segments []string) error
}

// Command represents one executable admin command.
type Command interface {
	// Name returns the command identifier
	Name() string

	// Description returns human-readable help text
	Description() string

	// Usage returns a usage string for help (e.g. "tag <path> <name> [-v value]")
	Usage() string

	// Execute runs the command with parsed arguments.
	// The writer parameter is where command output should be written.
	// Returns exit code (0 = success) and error message.
	Execute(ctx context.Context, api API, args *CommandArgs, writer io.Writer) (int, error)

	// GetFlags returns the flag set for this command (this is optional)
	GetFlags() *CommandFlagSet
}
