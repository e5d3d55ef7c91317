package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(InfoLevel, &buf).WithFields(map[string]interface{}{"service": "test"})

	logger.Info("hello", map[string]interface{}{"count": 3})

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, "hello", entries[0]["message"])
	assert.Equal(t, "test", entries[0]["service"])
	assert.Equal(t, float64(3), entries[0]["count"])
	assert.Contains(t, entries[0]["caller"], "logging/logger_test.go")
}

func TestLoggerText(t *testing.T) {
	var buf bytes.Buffer
	logger := New(DebugLevel, &buf).WithFormat(TextFormat)

	logger.Warn("slow search", map[string]interface{}{"b": 2, "a": 1})

	line := buf.String()
	assert.Contains(t, line, "WARN  slow search")
	assert.Less(t, strings.Index(line, " a=1"), strings.Index(line, " b=2"), "fields are sorted")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestLoggerLevels(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  []string
	}{
		{DebugLevel, []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{InfoLevel, []string{"INFO", "WARN", "ERROR"}},
		{WarnLevel, []string{"WARN", "ERROR"}},
		{ErrorLevel, []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(tt.level, &buf)
			logger.Debug("d")
			logger.Info("i")
			logger.Warn("w")
			logger.Error("e")

			var got []string
			for _, entry := range decodeLines(t, &buf) {
				got = append(got, entry["level"].(string))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := New(InfoLevel, &buf)
	_ = parent.WithFields(map[string]interface{}{"child": true})
	_ = parent.WithFields(map[string]interface{}{"error": "boom"}).WithFormat(TextFormat)

	parent.Info("parent")
	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "child")
	assert.NotContains(t, entries[0], "error")
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger(&Config{Level: "warn", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, logger.level)
	assert.Equal(t, TextFormat, logger.format)

	logger, err = NewLogger(nil)
	require.NoError(t, err)
	assert.Equal(t, InfoLevel, logger.level)
	assert.Equal(t, JSONFormat, logger.format)

	_, err = NewLogger(&Config{Output: t.TempDir()})
	assert.Error(t, err, "a directory is not a valid output file")
}

func TestZapAdapterKeepsCaller(t *testing.T) {
	var buf bytes.Buffer
	z := NewZapLogger(New(InfoLevel, &buf)).WithOptions(zap.AddCaller())

	z.Info("with caller")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0]["caller"], "logging/logger_test.go")
}

func TestZapAdapter(t *testing.T) {
	var buf bytes.Buffer
	z := NewZapLogger(New(InfoLevel, &buf))

	z.Debug("hidden")
	z.Info("search finished",
		zap.Float64("best_score", 38.25),
		zap.Int64("evaluations", 1200),
		zap.Bool("converged", true),
		zap.Duration("elapsed", 1500*time.Millisecond),
		zap.Error(errors.New("none")),
	)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Equal(t, 38.25, entries[0]["best_score"])
	assert.Equal(t, float64(1200), entries[0]["evaluations"])
	assert.Equal(t, true, entries[0]["converged"])
	assert.Equal(t, "1.5s", entries[0]["elapsed"])
	assert.Equal(t, "none", entries[0]["error"])
}

func TestProgressLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressLogger(New(InfoLevel, &buf), "TSP/HillClimbing")

	p.Progress(1000, 61.5)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "Search progress", entries[0]["message"])
	assert.Equal(t, "TSP/HillClimbing", entries[0]["search"])
	assert.Equal(t, float64(1000), entries[0]["evaluation"])
	assert.Equal(t, 61.5, entries[0]["best_score"])
}
