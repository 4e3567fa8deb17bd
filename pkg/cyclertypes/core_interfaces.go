// Package cyclertypes defines the core types and collaborator interfaces for the settings cycler.
// The cycling engine depends only on these interfaces; concrete stores, notifiers and hosts
// live in internal packages and can be swapped freely.
package cyclertypes

import "context"

// ConfigStore is a layered configuration store the cycler reads from and writes to.
type ConfigStore interface {
	// Inspect reads a key across every scope layer. The boolean is false when the
	// store does not know the key at all.
	Inspect(ctx context.Context, key string) (*InspectionResult, bool, error)

	// Update writes a value for key at the given scope.
	Update(ctx context.Context, key string, value any, scope Scope) error

	// Current returns the effective merged configuration.
	Current(ctx context.Context) (Snapshot, error)
}

// Notifier shows user-facing messages. Calls are fire-and-forget.
type Notifier interface {
	ShowError(message string)
	ShowWarning(message string)
}

// Service defines the interface for services registered at startup.
// Services are initialized once and then accessed by commands during execution.
type Service interface {
	Name() string
	Initialize() error
}

// Command defines the interface that all shell commands implement.
// Commands interact with services through the registry they are handed.
type Command interface {
	Name() string
	Description() string
	Usage() string
	HelpInfo() HelpInfo
	Execute(ctx context.Context, args map[string]string, input string) error
}
