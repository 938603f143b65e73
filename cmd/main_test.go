package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveSettings_FileValues(t *testing.T) {
	path := writeSettings(t, "log_level: warn\nforce_polling: true\ndebug_timescale: true\n")
	opts := &options{}
	command := newRootCommand(opts)
	require.NoError(t, command.ParseFlags([]string{"--config", path}))

	settings, err := resolveSettings(command, opts)

	require.NoError(t, err)
	assert.Equal(t, "warn", settings.LogLevel)
	assert.True(t, settings.ForcePolling)
	assert.Equal(t, time.Second, settings.Fatigue.Timescale.TickPeriod)
}

func TestResolveSettings_FlagsWin(t *testing.T) {
	path := writeSettings(t, "log_level: warn\nforce_polling: true\ndebug_timescale: true\n")
	opts := &options{}
	command := newRootCommand(opts)
	require.NoError(t, command.ParseFlags([]string{
		"--config", path,
		"--debug=false",
		"--force-polling=false",
		"--log-level", "debug",
		"--log-format", "json",
	}))

	settings, err := resolveSettings(command, opts)

	require.NoError(t, err)
	assert.Equal(t, "debug", settings.LogLevel)
	assert.Equal(t, "json", settings.LogFormat)
	assert.False(t, settings.ForcePolling)
	assert.Equal(t, time.Minute, settings.Fatigue.Timescale.TickPeriod)
}

func TestResolveSettings_InvalidFileFallsBack(t *testing.T) {
	path := writeSettings(t, "thresholds:\n  round: 500\n")
	opts := &options{}
	command := newRootCommand(opts)
	require.NoError(t, command.ParseFlags([]string{"--config", path, "--debug"}))

	settings, err := resolveSettings(command, opts)

	assert.Error(t, err)
	assert.Equal(t, 45, settings.Fatigue.Thresholds.Round)
	assert.True(t, settings.Fatigue.Timescale.Debug)
}

func TestResolveSettings_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	opts := &options{}
	command := newRootCommand(opts)
	require.NoError(t, command.ParseFlags([]string{"--config", path}))

	settings, err := resolveSettings(command, opts)

	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, "info", settings.LogLevel)
	assert.Equal(t, time.Minute, settings.Fatigue.Timescale.TickPeriod)
}
