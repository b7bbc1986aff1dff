// pkg/logger/logger_test.go
package logger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/YaganovValera/httplifecycle/pkg/logger"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logger.New(logger.Config{Level: "invalid", DevMode: false})
	require.Error(t, err)
}

func TestNew_ValidLevels(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		_, err := logger.New(logger.Config{Level: lvl, DevMode: true})
		assert.NoErrorf(t, err, "level %s", lvl)
	}
}

func TestNew_DefaultLevel(t *testing.T) {
	cfg := logger.Config{}
	cfg.ApplyDefaults()
	assert.Equal(t, "info", cfg.Level)

	_, err := logger.New(logger.Config{})
	require.NoError(t, err)
}

func TestWithContext_TraceAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := logger.FromZap(zap.New(core))

	ctx := context.Background()
	ctx = logger.ContextWithTraceID(ctx, "trace-123")
	ctx = logger.ContextWithRequestID(ctx, "req-456")
	log.WithContext(ctx).Info("test message")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "trace-123", fields["trace_id"])
	assert.Equal(t, "req-456", fields["request_id"])
}

func TestWithContext_NoValues(t *testing.T) {
	log := logger.NewNop()
	assert.Same(t, log, log.WithContext(context.Background()))
}

func TestSync_NoPanic(t *testing.T) {
	l, err := logger.New(logger.Config{Level: "info", DevMode: true})
	require.NoError(t, err)
	assert.NotPanics(t, l.Sync)
}
