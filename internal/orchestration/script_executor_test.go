package orchestration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settingscycler/internal/commands"
	"settingscycler/pkg/cyclertypes"
)

type call struct {
	name  string
	args  map[string]string
	input string
}

// recordingCommand records every execution and can be told to fail.
type recordingCommand struct {
	name  string
	calls *[]call
	err   error
}

func (c *recordingCommand) Name() string        { return c.name }
func (c *recordingCommand) Description() string { return "records calls" }
func (c *recordingCommand) Usage() string       { return "\\" + c.name }
func (c *recordingCommand) HelpInfo() cyclertypes.HelpInfo {
	return cyclertypes.HelpInfo{Command: c.name}
}

func (c *recordingCommand) Execute(_ context.Context, args map[string]string, input string) error {
	*c.calls = append(*c.calls, call{name: c.name, args: args, input: input})
	return c.err
}

func newTestRegistry(t *testing.T, calls *[]call, failing string) *commands.Registry {
	t.Helper()
	registry := commands.NewRegistry()
	for _, name := range []string{"cycle", "run", "status"} {
		cmd := &recordingCommand{name: name, calls: calls}
		if name == failing {
			cmd.err = errors.New("boom")
		}
		require.NoError(t, registry.Register(cmd))
	}
	return registry
}

func TestIsSkippable(t *testing.T) {
	assert.True(t, IsSkippable(""))
	assert.True(t, IsSkippable("   "))
	assert.True(t, IsSkippable("%% comment"))
	assert.True(t, IsSkippable("  %%indented comment"))
	assert.False(t, IsSkippable("\\status"))
	assert.False(t, IsSkippable("% not a comment"))
}

func TestExecuteLine(t *testing.T) {
	var calls []call
	registry := newTestRegistry(t, &calls, "")
	ctx := context.Background()

	require.NoError(t, ExecuteLine(ctx, registry, `\cycle[id=font] [{"a":1},{"a":2}]`))
	require.NoError(t, ExecuteLine(ctx, registry, `{"a": "$toggle"}`))
	require.NoError(t, ExecuteLine(ctx, registry, `font-size`))
	require.NoError(t, ExecuteLine(ctx, registry, `%% ignored`))
	require.NoError(t, ExecuteLine(ctx, registry, `\`))

	require.Len(t, calls, 3)
	assert.Equal(t, call{name: "cycle", args: map[string]string{"id": "font"}, input: `[{"a":1},{"a":2}]`}, calls[0])
	assert.Equal(t, "cycle", calls[1].name)
	assert.Equal(t, `{"a": "$toggle"}`, calls[1].input)
	assert.Equal(t, "run", calls[2].name)
	assert.Equal(t, "font-size", calls[2].input)

	assert.ErrorContains(t, ExecuteLine(ctx, registry, `\unknown`), "unknown command: unknown")
}

func TestExecuteReader(t *testing.T) {
	var calls []call
	registry := newTestRegistry(t, &calls, "")

	script := strings.Join([]string{
		"%% cycle the font",
		"",
		`\cycle {"editor.fontSize": 12}`,
		"   ",
		`\status`,
	}, "\n")

	count, err := ExecuteReader(context.Background(), registry, strings.NewReader(script))
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, calls, 2)
	assert.Equal(t, "status", calls[1].name)
}

func TestExecuteReader_StopsAtFirstFailure(t *testing.T) {
	var calls []call
	registry := newTestRegistry(t, &calls, "run")

	script := "\\status\n\\run font\n\\cycle {}\n"
	count, err := ExecuteReader(context.Background(), registry, strings.NewReader(script))

	var scriptErr *ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, 2, scriptErr.Line)
	assert.Equal(t, "\\run font", scriptErr.Command)
	assert.EqualError(t, errors.Unwrap(err), "boom")
	assert.Equal(t, 2, count)
	assert.Len(t, calls, 2)
}

func TestExecuteReader_Cancelled(t *testing.T) {
	var calls []call
	registry := newTestRegistry(t, &calls, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExecuteReader(ctx, registry, strings.NewReader("\\status\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}

func TestExecuteScript(t *testing.T) {
	var calls []call
	registry := newTestRegistry(t, &calls, "")

	path := filepath.Join(t.TempDir(), "fonts.cycler")
	require.NoError(t, os.WriteFile(path, []byte("\\status\n%% done\n"), 0o644))

	require.NoError(t, ExecuteScript(context.Background(), registry, path))
	assert.Len(t, calls, 1)

	err := ExecuteScript(context.Background(), registry, filepath.Join(t.TempDir(), "missing.cycler"))
	assert.ErrorContains(t, err, "failed to open script")
}
