package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/semfs/cmd"
)

// LsCommand lists a directory, physical or virtual.
type LsCommand struct{}

func (ls *LsCommand) Name() string {
	return "ls"
}

func (ls *LsCommand) Description() string {
	return "List a physical or virtual directory"
}

func (ls *LsCommand) Usage() string {
	return "ls [path]"
}

func (ls *LsCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	path := "/"
	if len(args.Args) > 0 {
		path = args.Args[0]
	}

	entries, err := api.ReadDir(ctx, path)
	if err != nil {
		return 1, err
	}

	for _, entry := range entries {
		if entry.Dir {
			fmt.Fprintf(writer, "%s/\n", entry.Name)
		} else {
			fmt.Fprintf(writer, "%s\n", entry.Name)
		}
	}

	return 0, nil
}

func (ls *LsCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

// RmCommand unlinks a file through any of its paths.
type RmCommand struct{}

func (rm *RmCommand) Name() string {
	return "rm"
}

func (rm *RmCommand) Description() string {
	return "Remove a file from the store and every view"
}

func (rm *RmCommand) Usage() string {
	return "rm <path>"
}

func (rm *RmCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 1 {
		return 1, fmt.Errorf("usage: %s", rm.Usage())
	}

	if err := api.Unlink(ctx, args.Args[0]); err != nil {
		return 1, err
	}

	return 0, nil
}

func (rm *RmCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

// ViewCommand saves a named view inside a space.
type ViewCommand struct{}

func (vc *ViewCommand) Name() string {
	return "view"
}

func (vc *ViewCommand) Description() string {
	return "Save a named view from query segments"
}

func (vc *ViewCommand) Usage() string {
	return "view <space> <name> <segment>..."
}

func (vc *ViewCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) < 3 {
		return 1, fmt.Errorf("usage: %s", vc.Usage())
	}

	if err := api.SaveView(ctx, args.Args[0], args.Args[1], args.Args[2:]); err != nil {
		return 1, err
	}

	fmt.Fprintf(writer, "saved view %s in %s\n", args.Args[1], args.Args[0])
	return 0, nil
}

func (vc *ViewCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

// Register adds every builtin command to a registry.
func Register(registry *cmd.Registry) {
	registry.Register(&MarkCommand{})
	registry.Register(&UnmarkCommand{})
	registry.Register(&TagCommand{})
	registry.Register(&UntagCommand{})
	registry.Register(&TagsCommand{})
	registry.Register(&LsCommand{})
	registry.Register(&RmCommand{})
	registry.Register(&ViewCommand{})
}
