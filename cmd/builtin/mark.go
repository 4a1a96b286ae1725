// Package builtin provides the stock admin commands mapping onto the core's
// space and tagging operations.
package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/semfs/cmd"
)

// MarkCommand designates a physical directory as a semantic space.
type MarkCommand struct{}

func (mc *MarkCommand) Name() string {
	return "mark"
}

func (mc *MarkCommand) Description() string {
	return "Mark a physical directory as a semantic space"
}

func (mc *MarkCommand) Usage() string {
	return "mark <path>"
}

func (mc *MarkCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 1 {
		return 1, fmt.Errorf("usage: %s", mc.Usage())
	}

	id, err := api.Mark(ctx, args.Args[0])
	if err != nil {
		return 1, err
	}

	fmt.Fprintf(writer, "marked %s as semantic space %s\n", args.Args[0], id)
	return 0, nil
}

func (mc *MarkCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

// UnmarkCommand tears a semantic space down again.
type UnmarkCommand struct{}

func (uc *UnmarkCommand) Name() string {
	return "unmark"
}

func (uc *UnmarkCommand) Description() string {
	return "Remove the semantic designation from a directory"
}

func (uc *UnmarkCommand) Usage() string {
	return "unmark <path>"
}

func (uc *UnmarkCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 1 {
		return 1, fmt.Errorf("usage: %s", uc.Usage())
	}

	if err := api.Unmark(ctx, args.Args[0]); err != nil {
		return 1, err
	}

	fmt.Fprintf(writer, "unmarked %s\n", args.Args[0])
	return 0, nil
}

func (uc *UnmarkCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
