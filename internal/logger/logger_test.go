package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected log.Level
	}{
		{"debug", log.DebugLevel},
		{"INFO", log.InfoLevel},
		{"warn", log.WarnLevel},
		{"error", log.ErrorLevel},
		{"fatal", log.FatalLevel},
		{"", log.InfoLevel},
		{"chatty", log.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestConfigure_LogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycler.log")

	require.NoError(t, Configure("debug", path, false))
	t.Cleanup(func() { _ = Configure("info", "", false) })

	assert.Equal(t, log.DebugLevel, Logger.GetLevel())

	Error("settings write failed", "key", "editor.fontSize")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "settings write failed")
	assert.Contains(t, string(data), "editor.fontSize")
}

func TestConfigure_EnvLevel(t *testing.T) {
	t.Setenv("CYCLER_LOG_LEVEL", "warn")

	require.NoError(t, Configure("", "", false))
	t.Cleanup(func() { _ = Configure("info", "", false) })

	assert.Equal(t, log.WarnLevel, Logger.GetLevel())
}

func TestConfigure_TestModeForcesInfo(t *testing.T) {
	require.NoError(t, Configure("debug", "", true))
	t.Cleanup(func() { _ = Configure("info", "", false) })

	assert.Equal(t, log.InfoLevel, Logger.GetLevel())
}

func TestNewStyledLogger(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })

	l := NewStyledLogger("Cycler")
	require.NotNil(t, l)
	assert.Equal(t, Logger.GetLevel(), l.GetLevel())

	l.Error("boom", "key", "files.autoSave")
	assert.Contains(t, buf.String(), "Cycler")
	assert.Contains(t, buf.String(), "boom")
}
