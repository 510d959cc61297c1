package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"stratum/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNewLoggerConsoleOnly(t *testing.T) {
	cfg := config.DefaultLoggingConfig()
	cfg.File.Enabled = false

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNewLoggerWithFile(t *testing.T) {
	dir := t.TempDir()

	cfg := config.DefaultLoggingConfig()
	cfg.Dir = filepath.Join(dir, "logs")
	cfg.File.Enabled = true
	cfg.Console.Enabled = false

	logger, err := NewLogger(cfg)
	require.NoError(t, err)

	logger.Info("hello", "key", "value")
	require.NoError(t, Shutdown())

	data, err := os.ReadFile(filepath.Join(cfg.Dir, "stratum.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestNewLoggerNoOutputsFallsBack(t *testing.T) {
	cfg := config.LoggingConfig{Level: "info"}

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.NotNil(t, logger)
}
