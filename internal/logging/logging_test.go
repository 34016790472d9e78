package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, LevelInfo, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
	assert.False(t, cfg.AddSource)
}

func TestNewLogger(t *testing.T) {
	t.Run("stdout text logger", func(t *testing.T) {
		logger, err := New(Config{Level: LevelInfo, Format: FormatText, Output: "stdout"})
		require.NoError(t, err)
		require.NotNil(t, logger)
		assert.Equal(t, LevelInfo, logger.config.Level)
	})

	t.Run("stderr json logger", func(t *testing.T) {
		logger, err := New(Config{Level: LevelError, Format: FormatJSON, Output: "stderr"})
		require.NoError(t, err)
		require.NotNil(t, logger)
	})

	t.Run("file logger", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "meterexporter.log")

		logger, err := New(Config{Level: LevelDebug, Format: FormatText, Output: logFile})
		require.NoError(t, err)
		require.NotNil(t, logger)

		_, statErr := os.Stat(logFile)
		assert.NoError(t, statErr, "log file should have been created")
	})

	t.Run("unknown log level defaults to info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewWithWriter(Config{Level: LogLevel("chatty"), Format: FormatText}, &buf)

		logger.Debug("hidden")
		logger.Info("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: LevelInfo, Format: FormatJSON}, &buf)

	logger.WithComponent("ingest").Info("reading accepted", "value", 1.5)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "reading accepted", entry["msg"])
	assert.Equal(t, "ingest", entry["component"])
	assert.Equal(t, 1.5, entry["value"])
}

func TestReadingHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: LevelDebug, Format: FormatText}, &buf)

	logger.InfoReading("Reading recorded", "meter", "m1", "value", 3)
	logger.ErrorReading("Failed to record reading", "building", "hq", errors.New("boom"))

	out := buf.String()
	assert.Contains(t, out, "kind=meter")
	assert.Contains(t, out, "entity=m1")
	assert.Contains(t, out, "value=3")
	assert.Contains(t, out, "kind=building")
	assert.Contains(t, out, "error=boom")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(Config{Level: LevelInfo}, &buf)

	logger.WithError(errors.New("bind failed")).Error("startup")

	assert.True(t, strings.Contains(buf.String(), `error="bind failed"`))
}

func TestSetAndGetDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	var buf bytes.Buffer
	custom := NewWithWriter(Config{Level: LevelDebug}, &buf)
	SetDefault(custom)

	assert.Same(t, custom, Default())

	Info("info message")
	Warn("warn message")

	out := buf.String()
	for _, msg := range []string{"info message", "warn message"} {
		assert.Contains(t, out, msg)
	}
}
