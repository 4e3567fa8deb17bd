package commands

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settingscycler/pkg/cyclertypes"
)

// MockCommand implements Command interface for testing
type MockCommand struct {
	name        string
	description string
	usage       string
	executeFunc func(ctx context.Context, args map[string]string, input string) error
}

func NewMockCommand(name string) *MockCommand {
	return &MockCommand{
		name:        name,
		description: fmt.Sprintf("Mock command: %s", name),
		usage:       fmt.Sprintf("Usage: \\%s", name),
	}
}

func (m *MockCommand) Name() string {
	return m.name
}

func (m *MockCommand) Description() string {
	return m.description
}

func (m *MockCommand) Usage() string {
	return m.usage
}

func (m *MockCommand) HelpInfo() cyclertypes.HelpInfo {
	return cyclertypes.HelpInfo{
		Command:     m.Name(),
		Description: m.Description(),
		Usage:       m.Usage(),
	}
}

func (m *MockCommand) Execute(ctx context.Context, args map[string]string, input string) error {
	if m.executeFunc != nil {
		return m.executeFunc(ctx, args, input)
	}
	return nil
}

func TestRegistry_NewRegistry(t *testing.T) {
	registry := NewRegistry()

	assert.NotNil(t, registry)
	assert.Empty(t, registry.GetAll())
}

func TestRegistry_Register(t *testing.T) {
	tests := []struct {
		name        string
		command     cyclertypes.Command
		wantErr     bool
		errContains string
	}{
		{name: "valid command", command: NewMockCommand("test")},
		{name: "empty name", command: NewMockCommand(""), wantErr: true, errContains: "command name cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry()
			err := registry.Register(tt.command)

			if tt.wantErr {
				assert.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.True(t, registry.IsValidCommand(tt.command.Name()))
		})
	}
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(NewMockCommand("dup")))

	err := registry.Register(NewMockCommand("dup"))
	assert.ErrorContains(t, err, "command dup already registered")
}

func TestRegistry_Unregister(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register(NewMockCommand("test")))

	registry.Unregister("test")
	assert.False(t, registry.IsValidCommand("test"))

	// Unregistering a missing command is a no-op
	registry.Unregister("missing")
}

func TestRegistry_GetAll_Sorted(t *testing.T) {
	registry := NewRegistry()
	for _, name := range []string{"status", "cycle", "get"} {
		require.NoError(t, registry.Register(NewMockCommand(name)))
	}

	var names []string
	for _, cmd := range registry.GetAll() {
		names = append(names, cmd.Name())
	}
	assert.Equal(t, []string{"cycle", "get", "status"}, names)
}

func TestRegistry_Execute(t *testing.T) {
	registry := NewRegistry()
	cmd := NewMockCommand("cycle")

	var gotArgs map[string]string
	var gotInput string
	cmd.executeFunc = func(_ context.Context, args map[string]string, input string) error {
		gotArgs = args
		gotInput = input
		return nil
	}
	require.NoError(t, registry.Register(cmd))

	err := registry.Execute(context.Background(), "cycle", map[string]string{"id": "font"}, "{}")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"id": "font"}, gotArgs)
	assert.Equal(t, "{}", gotInput)

	err = registry.Execute(context.Background(), "missing", nil, "")
	assert.ErrorContains(t, err, "unknown command: missing")
}

func TestRegistry_Execute_CommandError(t *testing.T) {
	registry := NewRegistry()
	cmd := NewMockCommand("fail")
	cmd.executeFunc = func(context.Context, map[string]string, string) error {
		return errors.New("boom")
	}
	require.NoError(t, registry.Register(cmd))

	assert.EqualError(t, registry.Execute(context.Background(), "fail", nil, ""), "boom")
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	registry := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			name := fmt.Sprintf("cmd%d", n)
			_ = registry.Register(NewMockCommand(name))
			_, _ = registry.Get(name)
			_ = registry.GetAll()
		}(i)
	}
	wg.Wait()

	assert.Len(t, registry.GetAll(), 20)
}

func TestGlobalRegistry(t *testing.T) {
	assert.NotNil(t, GlobalRegistry)
}
