package builtin

import (
	"context"
	"fmt"
	"io"

	"github.com/mwantia/semfs/cmd"
)

// TagCommand attaches a tag to a file, optionally with a scalar point
// value or a closed interval.
type TagCommand struct{}

func (tc *TagCommand) Name() string {
	return "tag"
}

func (tc *TagCommand) Description() string {
	return "Attach a tag to a file"
}

func (tc *TagCommand) Usage() string {
	return "tag <path> <name> [--value n | --low a --high b]"
}

func (tc *TagCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 2 {
		return 1, fmt.Errorf("usage: %s", tc.Usage())
	}

	path, name := args.Args[0], args.Args[1]

	_, hasValue := args.Flags["value"]
	_, hasLow := args.Flags["low"]
	_, hasHigh := args.Flags["high"]

	var err error
	switch {
	case hasLow != hasHigh:
		return 1, fmt.Errorf("--low and --high must be given together")
	case hasValue && hasLow:
		return 1, fmt.Errorf("--value and --low/--high are mutually exclusive")
	case hasValue:
		err = api.TagValue(ctx, path, name, args.Float("value", 0))
	case hasLow:
		err = api.TagRange(ctx, path, name, args.Float("low", 0), args.Float("high", 0))
	default:
		err = api.Tag(ctx, path, name)
	}

	if err != nil {
		return 1, err
	}

	fmt.Fprintf(writer, "tagged %s with %s\n", path, name)
	return 0, nil
}

func (tc *TagCommand) GetFlags() *cmd.CommandFlagSet {
	return &cmd.CommandFlagSet{
		Flags: map[string]*cmd.CommandFlag{
			"value": {Name: "value", Short: "v", Type: "float", Description: "scalar point value"},
			"low":   {Name: "low", Type: "float", Description: "interval start"},
			"high":  {Name: "high", Type: "float", Description: "interval end"},
		},
	}
}

// UntagCommand removes a tag from a file.
type UntagCommand struct{}

func (uc *UntagCommand) Name() string {
	return "untag"
}

func (uc *UntagCommand) Description() string {
	return "Remove a tag from a file"
}

func (uc *UntagCommand) Usage() string {
	return "untag <path> <name>"
}

func (uc *UntagCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 2 {
		return 1, fmt.Errorf("usage: %s", uc.Usage())
	}

	if err := api.Untag(ctx, args.Args[0], args.Args[1]); err != nil {
		return 1, err
	}

	fmt.Fprintf(writer, "untagged %s from %s\n", args.Args[1], args.Args[0])
	return 0, nil
}

func (uc *UntagCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}

// TagsCommand prints the edges of a file.
type TagsCommand struct{}

func (tc *TagsCommand) Name() string {
	return "tags"
}

func (tc *TagsCommand) Description() string {
	return "List the tags of a file"
}

func (tc *TagsCommand) Usage() string {
	return "tags <path>"
}

func (tc *TagsCommand) Execute(ctx context.Context, api cmd.API, args *cmd.CommandArgs, writer io.Writer) (int, error) {
	if len(args.Args) != 1 {
		return 1, fmt.Errorf("usage: %s", tc.Usage())
	}

	edges, err := api.TagsOf(ctx, args.Args[0])
	if err != nil {
		return 1, err
	}

	for _, edge := range edges {
		switch {
		case edge.Value == nil:
			fmt.Fprintf(writer, "%s\n", edge.Tag)
		case edge.Value.IsPoint():
			fmt.Fprintf(writer, "%s=%g\n", edge.Tag, edge.Value.Low)
		default:
			fmt.Fprintf(writer, "%s=%g..%g\n", edge.Tag, edge.Value.Low, edge.Value.High)
		}
	}

	return 0, nil
}

func (tc *TagsCommand) GetFlags() *cmd.CommandFlagSet {
	return nil
}
