package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("writes JSON lines to the log file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "agent.log")

		l, err := New(Config{Level: "debug", File: path})
		require.NoError(t, err)

		zl := l.GetZerolog()
		zl.Info().Str("session_id", "s1").Msg("hello")
		require.NoError(t, l.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"session_id":"s1"`)
		assert.Contains(t, string(data), `"message":"hello"`)
	})

	t.Run("falls back to info on an unknown level", func(t *testing.T) {
		l, err := New(Config{Level: "verbose"})
		require.NoError(t, err)
		defer l.Close()

		assert.Equal(t, zerolog.InfoLevel, l.GetZerolog().GetLevel())
	})

	t.Run("respects the configured level", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "agent.log")
		l, err := New(Config{Level: "warn", File: path})
		require.NoError(t, err)

		zl := l.GetZerolog()
		zl.Info().Msg("dropped")
		zl.Warn().Msg("kept")
		require.NoError(t, l.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "dropped")
		assert.Contains(t, string(data), "kept")
	})
}

func TestNop(t *testing.T) {
	l := Nop()
	zl := l.GetZerolog()
	zl.Error().Msg("ignored")
	assert.NoError(t, l.Close())
}
