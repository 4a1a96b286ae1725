package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	semfs "github.com/mwantia/semfs"
	"github.com/mwantia/semfs/cmd"
	"github.com/mwantia/semfs/cmd/builtin"
	"github.com/mwantia/semfs/log"
	"github.com/mwantia/semfs/physical"
)

// setupDemoFS creates a demo tree with one semantic space and tagged files.
func setupDemoFS(ctx context.Context, logger *log.Logger) (*semfs.SemanticFileSystem, error) {
	phys := physical.NewMemoryStore()

	dirs := []string{
		"/docs",
		"/home",
		"/home/user",
	}
	for _, dir := range dirs {
		if err := phys.MkDir(dir); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	files := []string{
		"/docs/report.pdf",
		"/docs/summary.md",
		"/docs/budget.xlsx",
		"/home/user/notes.txt",
	}
	for _, file := range files {
		if err := phys.Create(file); err != nil {
			return nil, fmt.Errorf("failed to create file %s: %w", file, err)
		}
	}

	fs := semfs.New(phys, semfs.WithLogger(logger))

	if _, err := fs.Mark(ctx, "/docs"); err != nil {
		return nil, fmt.Errorf("failed to mark /docs: %w", err)
	}

	seed := []struct {
		path  string
		tag   string
		value *float64
	}{
		{"/docs/report.pdf", "project=alpha", nil},
		{"/docs/report.pdf", "year", ptr(2023)},
		{"/docs/summary.md", "project=alpha", nil},
		{"/docs/budget.xlsx", "year", ptr(2024)},
	}
	for _, s := range seed {
		var err error
		if s.value != nil {
			err = fs.TagValue(ctx, s.path, s.tag, *s.value)
		} else {
			err = fs.Tag(ctx, s.path, s.tag)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to tag %s: %w", s.path, err)
		}
	}

	return fs, nil
}

func ptr(v float64) *float64 {
	return &v
}

func main() {
	level := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	logFile := flag.String("log-file", "", "optional log file with rotation")
	flag.Parse()

	logger := log.NewLogger("semfs", log.Parse(*level), *logFile, false)
	ctx := context.Background()

	fs, err := setupDemoFS(ctx, logger)
	if err != nil {
		logger.Error("setup failed: %v", err)
		os.Exit(1)
	}

	registry := cmd.NewRegistry()
	builtin.Register(registry)

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("commands:")
		for _, command := range registry.Commands() {
			fmt.Printf("  %-8s %s\n", command.Name(), command.Description())
		}
		os.Exit(0)
	}

	code, err := registry.Execute(ctx, fs, args[0], args[1:], os.Stdout)
	if err != nil {
		logger.Error("%s: %v", args[0], err)
	}
	os.Exit(code)
}
