package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/dispatch/pkg/errors"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("chatty")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, "warn")
	require.NoError(t, err)

	logger.Info("dropped")
	For(logger, CategoryTasks).Warn("kept", "key", "fetch")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "tasks", rec[CategoryKey])
	assert.Equal(t, "fetch", rec["key"])
}

func TestFor_NilLogger(t *testing.T) {
	logger := For(nil, CategoryRuntime)
	require.NotNil(t, logger)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
}

func TestOpen_WritesAndReadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dispatch.log")

	logger, err := Open(path, "debug")
	require.NoError(t, err)
	for i := range 5 {
		logger.Debug("tick", "n", i)
	}
	logger.Error("boom")
	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())

	records, err := ReadRecent(path, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "tick", records[0].Message())
	assert.Equal(t, float64(4), records[0]["n"])
	assert.Equal(t, "boom", records[1].Message())
	assert.Equal(t, "ERROR", records[1].Level())
}

func TestOpen_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dispatch.log")
	require.NoError(t, os.WriteFile(path, []byte("not json\n"), 0o644))

	logger, err := Open(path, "info")
	require.NoError(t, err)
	logger.Info("first")
	require.NoError(t, logger.Close())

	records, err := ReadRecent(path, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "first", records[0].Message())
}

func TestOpen_EmptyPathDiscards(t *testing.T) {
	logger, err := Open("", "info")
	require.NoError(t, err)
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
	assert.NoError(t, logger.Close())

	_, err = Open("", "loud")
	assert.Error(t, err)
}

func TestReadRecent_Missing(t *testing.T) {
	_, err := ReadRecent(filepath.Join(t.TempDir(), "nope.log"), 1)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}
