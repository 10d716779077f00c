package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gtfs-tools/transitaccess/internal/warnings"
)

func TestNewLogger(t *testing.T) {
	var jsonBuf, textBuf bytes.Buffer
	NewLogger(&jsonBuf, "json", slog.LevelInfo).Info("feed_loaded", slog.Int("trips", 3))
	NewLogger(&textBuf, "text", slog.LevelInfo).Info("feed_loaded", slog.Int("trips", 3))

	assert.Contains(t, jsonBuf.String(), `"msg":"feed_loaded"`)
	assert.Contains(t, textBuf.String(), "msg=feed_loaded trips=3")

	var quiet bytes.Buffer
	NewLogger(&quiet, "", slog.LevelWarn).Info("hidden")
	assert.Empty(t, quiet.String())
}

func TestStructuredLogger(t *testing.T) {
	t.Run("creates JSON logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		logger.Info("feed_loaded", slog.String("component", "gtfs_manager"), slog.Int("trips", 42))

		output := buf.String()
		assert.Contains(t, output, `"level":"INFO"`)
		assert.Contains(t, output, `"msg":"feed_loaded"`)
		assert.Contains(t, output, `"component":"gtfs_manager"`)
		assert.Contains(t, output, `"trips":42`)
		assert.Contains(t, output, `"time":`)
	})

	t.Run("respects log level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelWarn)

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warning message")

		output := buf.String()
		assert.NotContains(t, output, "debug message")
		assert.NotContains(t, output, "info message")
		assert.Contains(t, output, "warning message")
	})
}

func TestLoggerHelpers(t *testing.T) {
	t.Run("LogError", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogError(logger, "failed to import feed", assert.AnError,
			slog.String("source", "http://example.com/gtfs.zip"))

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to import feed"`)
		assert.Contains(t, output, `"error":"assert.AnError general error for testing"`)
		assert.Contains(t, output, `"source":"http://example.com/gtfs.zip"`)
	})

	t.Run("LogOperation drops zero durations", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogOperation(logger, "gtfs_data_imported",
			slog.String("source", "file.zip"),
			slog.Int("trip_count", 150),
			slog.Duration("duration", 0))

		output := buf.String()
		assert.Contains(t, output, `"msg":"gtfs_data_imported"`)
		assert.Contains(t, output, `"trip_count":150`)
		assert.NotContains(t, output, `"duration"`)
	})

	t.Run("LogHTTPRequest", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		LogHTTPRequest(logger, "GET", "/api/where/trip-counts", 200, 1.5,
			slog.String("user_agent", "test-client"))

		output := buf.String()
		assert.Contains(t, output, `"msg":"http_request"`)
		assert.Contains(t, output, `"method":"GET"`)
		assert.Contains(t, output, `"path":"/api/where/trip-counts"`)
		assert.Contains(t, output, `"status":200`)
		assert.Contains(t, output, `"duration_ms":1.5`)
	})

	t.Run("nil logger is ignored", func(t *testing.T) {
		LogError(nil, "x", assert.AnError)
		LogOperation(nil, "x")
		LogHTTPRequest(nil, "GET", "/", 200, 0)
	})
}

func TestWithAnalysis(t *testing.T) {
	var buf bytes.Buffer
	logger := WithAnalysis(NewStructuredLogger(&buf, slog.LevelInfo), "a-123")

	logger.Info("matched")
	assert.Contains(t, buf.String(), `"analysis_id":"a-123"`)
	assert.NotNil(t, WithAnalysis(nil, "a-456"))
}

func TestContextLogger(t *testing.T) {
	t.Run("stores and retrieves logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		retrieved := FromContext(WithLogger(context.Background(), logger))
		require.NotNil(t, retrieved)
		retrieved.Info("test from context")

		assert.Contains(t, buf.String(), "test from context")
	})

	t.Run("falls back to default logger", func(t *testing.T) {
		require.NotNil(t, FromContext(context.Background()))
	})
}

func TestLogWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(&buf, slog.LevelInfo)

	LogWarnings(logger, "load_feed", []warnings.Warning{
		warnings.DuplicateTripID{TripID: "T1"},
		warnings.DuplicateTripID{TripID: "T2"},
		warnings.ZeroHeadway{TripID: "TF", Start: 28800, Headway: 0},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"kind":"duplicate_trip_id"`)
	assert.Contains(t, lines[0], `"count":2`)
	assert.Contains(t, lines[0], `"examples":"T1, T2"`)
	assert.Contains(t, lines[0], `"level":"WARN"`)
	assert.Contains(t, lines[1], `"kind":"zero_headway"`)
	assert.Contains(t, lines[1], `"operation":"load_feed"`)
}

func TestLogWarningsEmpty(t *testing.T) {
	var buf bytes.Buffer
	LogWarnings(NewStructuredLogger(&buf, slog.LevelInfo), "load_feed", nil)
	assert.Empty(t, buf.String())
}
