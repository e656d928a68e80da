package logging

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		options     []Option
		expectLevel zerolog.Level
		expectError bool
	}{
		{
			name:        "defaults",
			options:     nil,
			expectLevel: zerolog.InfoLevel,
		},
		{
			name:        "explicit level",
			options:     []Option{WithLevel("debug")},
			expectLevel: zerolog.DebugLevel,
		},
		{
			name:        "invalid level",
			options:     []Option{WithLevel("shouting")},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(append(tt.options, WithConsoleLog(false))...)
			if tt.expectError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expectLevel, logger.GetLevel())
		})
	}
}

func TestSoleWriter(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	logger, err := New(WithSoleWriter(buf), WithLevel("info"))
	require.NoError(t, err)

	logger.Info().Str("key", "value").Msg("hello")

	out := buf.String()
	assert.Contains(t, out, `"message":"hello"`)
	assert.Contains(t, out, `"key":"value"`)
}

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	logger, err := New(
		WithSoleWriter(buf),
		WithLevel("info"),
		WithSecrets([]string{"ghp_super_secret"}),
	)
	require.NoError(t, err)

	logger.Info().Str("token", "ghp_super_secret").Msg("authenticating")

	out := buf.String()
	assert.NotContains(t, out, "ghp_super_secret")
	assert.Contains(t, out, "[REDACTED]")
}

func TestFileSink(t *testing.T) {
	t.Parallel()

	logFile := t.TempDir() + "/nested/test.log"
	logger, err := New(
		WithFileName(logFile),
		WithLevel("warn"),
		WithConsoleLog(false),
	)
	require.NoError(t, err)

	logger.Info().Msg("below threshold")
	logger.Error().Msg("recorded failure")

	assert.FileExists(t, logFile)
}
