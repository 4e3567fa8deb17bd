// Package commands provides command registration and execution for the cycler shell.
// It manages a global registry of commands and handles command lookup and execution.
package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"settingscycler/pkg/cyclertypes"
)

// Registry manages command registration and lookup.
// It provides thread-safe registration and retrieval of commands by name.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]cyclertypes.Command
}

// NewRegistry creates a new command registry with an empty command map.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]cyclertypes.Command),
	}
}

// Register adds a command to the registry. Returns an error if the command
// name is empty or if a command with the same name is already registered.
func (r *Registry) Register(cmd cyclertypes.Command) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cmd.Name() == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	if _, exists := r.commands[cmd.Name()]; exists {
		return fmt.Errorf("command %s already registered", cmd.Name())
	}

	r.commands[cmd.Name()] = cmd
	return nil
}

// Unregister removes a command from the registry by name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, name)
}

// Get retrieves a command by name.
func (r *Registry) Get(name string) (cyclertypes.Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, exists := r.commands[name]
	return cmd, exists
}

// GetAll returns all registered commands sorted by name.
func (r *Registry) GetAll() []cyclertypes.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	commands := make([]cyclertypes.Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		commands = append(commands, cmd)
	}
	sort.Slice(commands, func(i, j int) bool { return commands[i].Name() < commands[j].Name() })
	return commands
}

// Execute runs a command by name with the provided arguments and input.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]string, input string) error {
	cmd, exists := r.Get(name)
	if !exists {
		return fmt.Errorf("unknown command: %s", name)
	}
	return cmd.Execute(ctx, args, input)
}

// IsValidCommand checks if a command exists in the registry.
func (r *Registry) IsValidCommand(name string) bool {
	_, exists := r.Get(name)
	return exists
}

// GlobalRegistry is the command registry used by the shell and the CLI.
// Builtin commands register themselves with it during initialization.
var GlobalRegistry = NewRegistry()
