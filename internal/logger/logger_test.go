package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelError},
		{"verbose", slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.name, slog.LevelError))
		})
	}
}

func TestSetOutputAndLevel(t *testing.T) {
	prev := Level()
	t.Cleanup(func() {
		SetLevel(prev)
		SetOutput(os.Stderr)
	})

	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(slog.LevelWarn)

	Info("hidden")
	Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "key=value")

	SetLevel(slog.LevelDebug)
	Transition("login[0]", "pin[0]", "SWITCH_WORKFLOW(pin)")
	assert.Contains(t, buf.String(), "from=login[0]")
}

func TestConfigure_File(t *testing.T) {
	prev := Level()
	t.Cleanup(func() {
		SetLevel(prev)
		SetOutput(os.Stderr)
	})

	path := filepath.Join(t.TempDir(), "logs", "edgelogin.log")
	require.NoError(t, Configure("debug", path, true))
	Debug("to file")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
	assert.Equal(t, slog.LevelDebug, Level())
}
