package cmd

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Registry maps command names to their implementations.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]Command
}

func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// Register adds a command; re-registering a name replaces it.
func (r *Registry) Register(command Command) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.commands[command.Name()] = command
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]Command, 0, len(r.commands))
	for _, command := range r.commands {
		commands = append(commands, command)
	}

	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name() < commands[j].Name()
	})

	return commands
}

// Execute parses raw arguments with the command's flag set and runs it.
func (r *Registry) Execute(ctx context.Context, api API, name string, raw []string, writer io.Writer) (int, error) {
	r.mu.RLock()
	command, exists := r.commands[name]
	r.mu.RUnlock()

	if !exists {
		return 1, fmt.Errorf("unknown command: %s", name)
	}

	args, err := NewParser(command.GetFlags()).Parse(raw)
	if err != nil {
		return 1, err
	}

	return command.Execute(ctx, api, args, writer)
}
