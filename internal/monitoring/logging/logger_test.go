package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 7}, Int("n", 7))
	assert.Equal(t, Field{Key: "n", Value: int64(7)}, Int64("n", 7))
	assert.Equal(t, Field{Key: "f", Value: 1.5}, Float64("f", 1.5))
	assert.Equal(t, Field{Key: "b", Value: true}, Bool("b", true))
	assert.Equal(t, Field{Key: "d", Value: time.Second}, Duration("d", time.Second))
	assert.Equal(t, Field{Key: "error", Value: "boom"}, Err(errors.New("boom")))
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
}

func TestLogLevels(t *testing.T) {
	log, logs := observedLogger(zapcore.DebugLevel)

	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestLevelFiltering(t *testing.T) {
	log, logs := observedLogger(zapcore.WarnLevel)

	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	assert.Equal(t, 1, logs.Len())
}

func TestFieldsReachEntry(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)

	log.Info("loaded",
		String("path", "/m.tsmi"),
		Int("sections", 2),
		Bool("degraded", false),
		Duration("elapsed", 3*time.Millisecond),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/m.tsmi", fields["path"])
	assert.Equal(t, int64(2), fields["sections"])
	assert.Equal(t, false, fields["degraded"])
	assert.Equal(t, 3*time.Millisecond, fields["elapsed"])
}

func TestWithAttachesFieldsToChildOnly(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)

	child := log.With(String("component", "engine"))
	child.Info("from child")
	log.Info("from parent")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "engine", entries[0].ContextMap()["component"])
	assert.NotContains(t, entries[1].ContextMap(), "component")
}

func TestNamed(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)

	log.Named("textselect").Named("engine").Info("hello")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "textselect.engine", entries[0].LoggerName)
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(Config{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, log)

	// Unrecognized level falls back to info rather than failing.
	log, err = NewLogger(Config{Level: "loud"})
	require.NoError(t, err)
	assert.NotNil(t, log)
}

func TestFromZapNil(t *testing.T) {
	log := FromZap(nil)
	require.NotNil(t, log)
	log.Info("discarded")
}

func TestNewNopDiscards(t *testing.T) {
	log := NewNop()
	log.Debug("a")
	log.Error("b", Err(errors.New("x")))
	log.With(String("k", "v")).Named("n").Warn("c")
}
