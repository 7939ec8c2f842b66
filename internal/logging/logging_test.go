package logging_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/logging"
)

func TestNewLoggerWithPath_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "stockdesk.log")
	result := logging.NewLoggerWithPath(logging.Config{
		Level:  "debug",
		Format: logging.FormatJSON,
		Output: logging.OutputFile,
		File:   path,
	})
	t.Cleanup(func() { _ = result.Close() })

	require.True(t, result.UsingFile)
	assert.False(t, result.FallbackUsed)
	assert.Equal(t, path, result.FilePath)

	result.Logger.Debug().Str("k", "v").Msg("hello")
	require.NoError(t, result.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
}

func TestNewLoggerWithPath_FallsBackWithoutFile(t *testing.T) {
	result := logging.NewLoggerWithPath(logging.Config{Output: logging.OutputFile})
	assert.False(t, result.UsingFile)
	assert.True(t, result.FallbackUsed)
	assert.NotEmpty(t, result.FallbackReason)
}

func TestNewLoggerWithPath_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "debug", want: zerolog.DebugLevel},
		{level: "WARN", want: zerolog.WarnLevel},
		{level: "", want: zerolog.InfoLevel},
		{level: "nonsense", want: zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l := logging.NewLogger(logging.Config{Level: tt.level})
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, logging.TraceIDFromContext(ctx))

	generated := logging.GetOrGenerateTraceID(ctx)
	assert.Len(t, generated, 26, "ULID string length")

	ctx = logging.ContextWithTraceID(ctx, "trace-1")
	assert.Equal(t, "trace-1", logging.GetOrGenerateTraceID(ctx))
}

func TestTraceHook(t *testing.T) {
	var buf bytes.Buffer
	l := zerolog.New(&buf).Hook(logging.TraceHook{})
	ctx := logging.ContextWithTraceID(context.Background(), "abc")

	l.Info().Ctx(ctx).Msg("with trace")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "abc", line["trace_id"])
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	l := logging.ComponentLogger(zerolog.New(&buf), "api")
	l.Info().Msg("x")
	assert.Contains(t, buf.String(), `"component":"api"`)
}

func TestAuditLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := logging.NewAuditLogger(logging.AuditLoggerConfig{Enabled: true, File: path})
	ctx := logging.ContextWithAuditLogger(context.Background(), l)

	start := time.Now()
	logging.AuditLoggerFromContext(ctx).Log(ctx, *logging.NewAuditEntry("delete", "t1").
		WithParameters(map[string]string{"resource": "products", "id": "7"}).
		WithSuccess(1).
		WithDuration(start))
	logging.AuditLoggerFromContext(ctx).Log(ctx, *logging.NewAuditEntry("approve", "t2").
		WithError("boom"))
	require.NoError(t, l.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var entries []logging.AuditEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e logging.AuditEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e))
		entries = append(entries, e)
	}
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Success)
	assert.Equal(t, "7", entries[0].Parameters["id"])
	assert.False(t, entries[1].Success)
	assert.Equal(t, "boom", entries[1].Error)
}

func TestAuditLogger_DisabledIsNoop(t *testing.T) {
	l := logging.NewAuditLogger(logging.AuditLoggerConfig{Enabled: false, File: "/nonexistent/audit.log"})
	l.Log(context.Background(), *logging.NewAuditEntry("x", "y"))
	assert.NoError(t, l.Close())

	assert.NotNil(t, logging.AuditLoggerFromContext(context.Background()))
}
