package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelDebug).With("component", "storage")

	l.Info("document written", "bytes", 42)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "document written", entry["msg"])
	assert.Equal(t, "storage", entry["component"])
	assert.Equal(t, float64(42), entry["bytes"])
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	assert.Zero(t, buf.Len())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"WARN", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
		{"", "INFO"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in).String(), tt.in)
	}
}

func TestNewLoggerFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	l, err := NewLogger(dir, LevelInfo)
	require.NoError(t, err)

	l.Info("hello")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	data, err := os.ReadFile(filepath.Join(dir, "projectflow.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
