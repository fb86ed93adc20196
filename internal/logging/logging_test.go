package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{in: "debug", want: zerolog.DebugLevel},
		{in: "warn", want: zerolog.WarnLevel},
		{in: "", want: zerolog.InfoLevel},
		{in: "loud", want: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := ComponentLogger(NewLogger(Config{Level: "info", Format: FormatJSON}, &buf), "loader")

	logger.Debug().Msg("hidden")
	logger.Error().Str("url", "https://example.test").Msg("retrieval failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"component":"loader"`)
	assert.Contains(t, out, `"url":"https://example.test"`)
	assert.Contains(t, out, `"level":"error"`)
}

func TestNewLogger_Caller(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(Config{Level: "debug", Format: FormatJSON}, &buf).Debug().Msg("plain")
	assert.NotContains(t, buf.String(), `"caller"`)

	buf.Reset()
	NewLogger(Config{Level: "debug", Format: FormatJSON, Caller: true}, &buf).Debug().Msg("traced")
	assert.Contains(t, buf.String(), `"caller":`)
	assert.Contains(t, buf.String(), "logging_test.go")
}

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "viewer.log")

	result := NewLoggerWithPath(Config{Level: "info", Format: FormatConsole, Output: OutputFile, File: path}, os.Stderr)
	require.True(t, result.UsingFile)
	assert.False(t, result.FallbackUsed)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Info().Msg("hello file")
	require.NoError(t, result.Close())
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello file"`)
}

func TestNewLoggerWithPath_Fallback(t *testing.T) {
	var buf bytes.Buffer
	result := NewLoggerWithPath(Config{Level: "info", Format: FormatJSON, Output: OutputFile}, &buf)

	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)

	result.Logger.Warn().Msg("to fallback")
	assert.Contains(t, buf.String(), "to fallback")
}

func TestNewLoggerWithPath_Discard(t *testing.T) {
	var buf bytes.Buffer
	result := NewLoggerWithPath(Config{Output: OutputDiscard}, &buf)
	result.Logger.Error().Msg("dropped")
	assert.Empty(t, buf.String())
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, TraceIDFromContext(ctx))

	id := GetOrGenerateTraceID(ctx)
	_, err := ulid.ParseStrict(id)
	require.NoError(t, err)

	ctx = ContextWithTraceID(ctx, id)
	assert.Equal(t, id, GetOrGenerateTraceID(ctx))
	assert.NotEqual(t, id, NewTraceID())
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{Format: FormatJSON}, &buf)
	ctx := logger.WithContext(context.Background())

	FromContext(ctx).Info().Msg("via context")
	assert.Contains(t, buf.String(), "via context")
}
