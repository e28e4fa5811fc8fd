package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapturedLogger(level string) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	base := logrus.New()
	base.SetOutput(buf)
	base.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	lvl, _ := logrus.ParseLevel(level)
	base.SetLevel(lvl)
	return NewLogrusAdapterFromLogger(base), buf
}

func TestLogrusAdapterLevels(t *testing.T) {
	logger, buf := newCapturedLogger("debug")

	logger.Debug("debug message")
	logger.Info("info message", Field{Key: "count", Value: 3})
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	assert.Contains(t, out, "debug message")
	assert.Contains(t, out, "info message")
	assert.Contains(t, out, "count=3")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestLogrusAdapterLevelFiltering(t *testing.T) {
	logger, buf := newCapturedLogger("warn")

	logger.Info("hidden")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestLogrusAdapterWithError(t *testing.T) {
	logger, buf := newCapturedLogger("info")

	logger.WithError(errors.New("boom")).Error("failed")

	assert.Contains(t, buf.String(), "boom")
}

func TestNewLogrusAdapterInvalidLevel(t *testing.T) {
	// Falls back to info without panicking.
	logger := NewLogrusAdapter("nonsense", "text")
	require.NotNil(t, logger)
	logger.Info("still works")
}

func TestMockLogger(t *testing.T) {
	mock := NewMockLogger()
	mock.Info("parsed", Field{Key: "count", Value: 2})
	mock.WithField("k", "v").Warn("slow")

	assert.True(t, mock.HasMessage("info", "parsed"))
	assert.True(t, mock.HasMessage("warn", "slow"))
	assert.False(t, mock.HasMessage("error", "parsed"))
}
