package main

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger := newLogger("debug")
	assert.NotNil(t, logger)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))

	logger = newLogger("warn")
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
}
