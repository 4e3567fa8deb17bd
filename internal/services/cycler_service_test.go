package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"settingscycler/internal/cycler"
	"settingscycler/internal/output"
	"settingscycler/internal/settings"
	"settingscycler/internal/testutils"
	"settingscycler/pkg/cyclertypes"
)

func newTestCyclerService(t *testing.T, store *settings.MemoryStore) (*CyclerService, *output.RecordingNotifier, *bytes.Buffer) {
	t.Helper()
	settingsService := NewSettingsServiceWithStore(store)
	require.NoError(t, settingsService.Initialize())

	notifier := &output.RecordingNotifier{}
	service := NewCyclerService(nil, settingsService, notifier)

	var buf bytes.Buffer
	service.SetLogger(log.New(&buf))
	require.NoError(t, service.Initialize())
	return service, notifier, &buf
}

func TestCyclerService_NotInitialized(t *testing.T) {
	service := NewCyclerService(nil, NewSettingsServiceWithStore(settings.NewMemoryStore()), &output.RecordingNotifier{})
	assert.Equal(t, "cycler", service.Name())

	_, err := service.CycleJSON(context.Background(), []byte(`{"a":1}`))
	assert.ErrorIs(t, err, ErrServiceNotInitialized)
	assert.ErrorIs(t, service.Reset(), ErrServiceNotInitialized)
	_, err = service.Entries()
	assert.ErrorIs(t, err, ErrServiceNotInitialized)
}

func TestCyclerService_RequiresSettings(t *testing.T) {
	assert.Error(t, NewCyclerService(nil, nil, &output.RecordingNotifier{}).Initialize())
}

func TestCyclerService_SettingsNotInitialized(t *testing.T) {
	service := NewCyclerService(nil, NewSettingsServiceWithStore(settings.NewMemoryStore()), &output.RecordingNotifier{})
	assert.ErrorIs(t, service.Initialize(), ErrServiceNotInitialized)
}

func TestCyclerService_CyclesAndRemembers(t *testing.T) {
	ctx := context.Background()
	store := settings.NewMemoryStore()
	store.SetDefault("editor.fontSize", 14)
	service, _, _ := newTestCyclerService(t, store)

	payload := []byte(`{"id":"font","values":[{"editor.fontSize":12},{"editor.fontSize":16}]}`)

	result, err := service.CycleJSON(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Index)
	value, _ := store.Value(cyclertypes.ScopeWorkspace, "editor.fontSize")
	assert.Equal(t, 12.0, value)

	result, err = service.CycleJSON(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Index)

	entries, err := service.Entries()
	require.NoError(t, err)
	assert.Equal(t, []cycler.CacheEntry{{ID: "font", Index: 1}}, entries)

	require.NoError(t, service.Reset())
	entries, err = service.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCyclerService_CycleDecodedPayload(t *testing.T) {
	store := settings.NewMemoryStore()
	service, _, _ := newTestCyclerService(t, store)

	result, err := service.Cycle(context.Background(), map[string]any{"editor.wordWrap": "on"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Length)
	value, _ := store.Value(cyclertypes.ScopeWorkspace, "editor.wordWrap")
	assert.Equal(t, "on", value)
}

func TestCyclerService_RejectsMalformedPayload(t *testing.T) {
	store := settings.NewMemoryStore()
	service, notifier, _ := newTestCyclerService(t, store)

	_, err := service.CycleJSON(context.Background(), []byte(`{"values":`))
	assert.ErrorIs(t, err, cycler.ErrInvalidRequest)
	assert.Len(t, notifier.Errors, 1)
	assert.Empty(t, store.Updates())
}

func TestCyclerService_WriteFailuresAreLogged(t *testing.T) {
	store := settings.NewMemoryStore()
	store.FailOn("b", errors.New("disk full"))
	service, _, buf := newTestCyclerService(t, store)

	result, err := service.CycleJSON(context.Background(), []byte(`{"a":1,"b":2,"c":3}`))
	require.NoError(t, err)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "b", result.Failures[0].Key)
	assert.Len(t, store.Updates(), 2)
	assert.Contains(t, buf.String(), "disk full")
}

func TestCyclerService_CacheSizeFromConfiguration(t *testing.T) {
	v := newTestViper(t, t.TempDir(), true)
	v.Set(KeyMemory, true)
	v.Set(KeyCacheSize, 1)
	config := NewConfigurationService(v)
	require.NoError(t, config.Initialize())

	settingsService := NewSettingsService(config)
	require.NoError(t, settingsService.Initialize())

	service := NewCyclerService(config, settingsService, &output.RecordingNotifier{})
	service.SetLogger(log.New(&bytes.Buffer{}))
	require.NoError(t, service.Initialize())

	testutils.ResetTestCounters()
	t.Cleanup(testutils.ResetTestCounters)

	ctx := context.Background()
	first, err := service.CycleJSON(ctx, []byte(`{"id":"one","values":[{"a":1},{"a":2}]}`))
	require.NoError(t, err)
	second, err := service.CycleJSON(ctx, []byte(`{"id":"two","values":[{"b":1},{"b":2}]}`))
	require.NoError(t, err)

	// Test mode numbers invocations.
	assert.Equal(t, "00000001-0000-4000-8000-000000000001", first.InvocationID)
	assert.Equal(t, "00000002-0000-4000-8000-000000000002", second.InvocationID)

	entries, err := service.Entries()
	require.NoError(t, err)
	assert.Equal(t, []cycler.CacheEntry{{ID: "two", Index: 0}}, entries)
}
