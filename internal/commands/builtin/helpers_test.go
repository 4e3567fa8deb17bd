package builtin

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"settingscycler/internal/output"
	"settingscycler/internal/services"
	"settingscycler/internal/settings"
)

const testBindings = `bindings:
  font-size:
    description: Cycle editor font size
    args:
      values:
        - editor.fontSize: 12
        - editor.fontSize: 16
  minimap:
    description: Toggle the minimap
    args:
      editor.minimap.enabled: $toggle
`

type testEnv struct {
	store    *settings.MemoryStore
	notifier *output.RecordingNotifier
	out      *bytes.Buffer
	printer  *output.Printer
	cycler   *services.CyclerService
	bindings *services.BindingService
}

// setupTestEnv installs a fresh global service registry backed by a memory store.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	original := services.GetGlobalRegistry()
	t.Cleanup(func() { services.SetGlobalRegistry(original) })

	store := settings.NewMemoryStore()
	store.SetDefault("editor.fontSize", 14)
	store.SetDefault("editor.minimap.enabled", true)

	bindingsPath := filepath.Join(t.TempDir(), "bindings.yaml")
	require.NoError(t, os.WriteFile(bindingsPath, []byte(testBindings), 0o644))

	notifier := &output.RecordingNotifier{}
	settingsService := services.NewSettingsServiceWithStore(store)
	cyclerService := services.NewCyclerService(nil, settingsService, notifier)
	cyclerService.SetLogger(log.New(&bytes.Buffer{}))
	bindingService := services.NewBindingServiceWithPath(bindingsPath)

	registry := services.NewRegistry()
	require.NoError(t, registry.RegisterService(settingsService))
	require.NoError(t, registry.RegisterService(cyclerService))
	require.NoError(t, registry.RegisterService(bindingService))
	require.NoError(t, registry.InitializeAll())
	services.SetGlobalRegistry(registry)

	var out bytes.Buffer
	return &testEnv{
		store:    store,
		notifier: notifier,
		out:      &out,
		printer:  output.NewPrinter(output.WithWriter(&out), output.PlainText()),
		cycler:   cyclerService,
		bindings: bindingService,
	}
}
