package shell

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/abiosoft/ishell/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settingscycler/internal/commands"
	"settingscycler/internal/cycler"
	"settingscycler/internal/output"
	"settingscycler/internal/services"
	"settingscycler/pkg/cyclertypes"
)

type stubCommand struct {
	name   string
	err    error
	inputs []string
}

func (c *stubCommand) Name() string                    { return c.name }
func (c *stubCommand) Description() string             { return "stub" }
func (c *stubCommand) Usage() string                   { return "\\" + c.name }
func (c *stubCommand) HelpInfo() cyclertypes.HelpInfo { return cyclertypes.HelpInfo{Command: c.name} }

func (c *stubCommand) Execute(_ context.Context, _ map[string]string, input string) error {
	c.inputs = append(c.inputs, input)
	return c.err
}

func newTestHandler(t *testing.T, cmds ...*stubCommand) (*Handler, *bytes.Buffer) {
	t.Helper()
	registry := commands.NewRegistry()
	for _, cmd := range cmds {
		require.NoError(t, registry.Register(cmd))
	}
	var out bytes.Buffer
	return NewHandler(registry, output.NewPrinter(output.WithWriter(&out), output.PlainText())), &out
}

func TestHandler_ProcessInput(t *testing.T) {
	cycle := &stubCommand{name: "cycle"}
	handler, out := newTestHandler(t, cycle)

	handler.ProcessInput(&ishell.Context{RawArgs: []string{`{"a":`, `1}`}})
	handler.ProcessInput(&ishell.Context{RawArgs: []string{}})
	handler.ProcessInput(&ishell.Context{RawArgs: []string{"%%", "comment"}})

	assert.Equal(t, []string{`{"a": 1}`}, cycle.inputs)
	assert.Empty(t, out.String())
}

func TestHandler_Execute_ReportsErrors(t *testing.T) {
	status := &stubCommand{name: "status", err: errors.New("broken")}
	handler, out := newTestHandler(t, status)

	err := handler.Execute(context.Background(), "\\status")
	assert.EqualError(t, err, "broken")
	assert.Contains(t, out.String(), "✗ Error: broken")
	assert.Contains(t, out.String(), "Type \\help for available commands")

	out.Reset()
	err = handler.Execute(context.Background(), "\\nope")
	assert.ErrorContains(t, err, "unknown command: nope")
	assert.Contains(t, out.String(), "unknown command: nope")
}

func TestHandler_Execute_RejectedPayloadNotReprinted(t *testing.T) {
	cycle := &stubCommand{name: "cycle", err: cycler.ErrInvalidRequest}
	handler, out := newTestHandler(t, cycle)

	err := handler.Execute(context.Background(), `{"values": 1}`)
	assert.ErrorIs(t, err, cycler.ErrInvalidRequest)
	assert.Empty(t, out.String())
}

func TestHandler_Run(t *testing.T) {
	cycle := &stubCommand{name: "cycle"}
	handler, out := newTestHandler(t, cycle)

	payload := "{\n  \"a\": [1, 2]\n}"
	require.NoError(t, handler.Run(context.Background(), "cycle", map[string]string{"id": "x"}, payload))
	assert.Equal(t, []string{payload}, cycle.inputs)

	err := handler.Run(context.Background(), "missing", nil, "")
	assert.ErrorContains(t, err, "unknown command: missing")
	assert.Contains(t, out.String(), "Error: unknown command: missing")
}

func TestInitializeServices(t *testing.T) {
	original := services.GetGlobalRegistry()
	t.Cleanup(func() { services.SetGlobalRegistry(original) })
	services.SetGlobalRegistry(services.NewRegistry())
	t.Cleanup(func() { output.SetDefault(nil) })

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	v := viper.New()
	v.Set(services.KeyTestMode, true)
	v.Set(services.KeyMemory, true)
	v.Set(services.KeyWorkspace, t.TempDir())
	v.Set(services.KeyBindingsFile, filepath.Join(t.TempDir(), "bindings.yaml"))
	v.Set(services.KeyOutput, "silent")

	require.NoError(t, InitializeServices(v, &output.RecordingNotifier{}))

	cyclerService, err := services.GetGlobalCyclerService()
	require.NoError(t, err)
	result, err := cyclerService.CycleJSON(context.Background(), []byte(`{"editor.fontSize": "$inc"}`))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Index)

	settingsService, err := services.GetGlobalSettingsService()
	require.NoError(t, err)
	inspection, ok, err := settingsService.Inspect(context.Background(), "editor.fontSize")
	require.NoError(t, err)
	require.True(t, ok)
	value, _ := inspection.Effective()
	assert.Equal(t, 1.0, value, "an unknown key increments from zero")

	assert.Error(t, InitializeServices(v, nil), "services cannot be registered twice")
}
