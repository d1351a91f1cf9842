package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mbalug7/go-by8301-hx711/pkg/config"
)

func TestLoggerJSONLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept")
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "kept", entry["msg"])
	require.Equal(t, "warn", entry["level"])
}

func TestLoggerRejectsUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	_, err := newLogger(config.LoggingConfig{Level: "loud"}, &buf)
	require.Error(t, err)
}

func TestLoggerEmptyLevelIsInfo(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(config.LoggingConfig{}, &buf)
	require.NoError(t, err)
	log.Debug("dropped")
	log.Info("kept")
	require.NotContains(t, buf.String(), "dropped")
	require.Contains(t, buf.String(), "kept")
}

func TestLoggerRollingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "controller.log")
	var buf bytes.Buffer
	log, err := newLogger(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		File:   config.LumberjackConfig{Filename: path, MaxSizeMB: 1},
	}, &buf)
	require.NoError(t, err)
	log.Info("to both")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "to both")
	require.Contains(t, buf.String(), "to both")
}
