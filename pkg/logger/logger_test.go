package logger_test

import (
	"context"
	"redirectadmin/pkg/logger"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)

	return zap.New(core), logs
}

func TestGet_FallsBackToDefault(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)

	require.NotNil(t, logger.Get(context.Background()))
}

func TestWithLogger_StoresInContext(t *testing.T) {
	l, logs := newObserved()
	ctx := logger.WithLogger(context.Background(), l)

	logger.Info(ctx, "hello")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "hello", logs.All()[0].Message)
}

func TestWithFields_AttachesFieldsDownstream(t *testing.T) {
	l, logs := newObserved()
	ctx := logger.WithLogger(context.Background(), l)
	ctx = logger.WithFields(ctx, zap.Int64("linkSetID", 42))

	logger.Warn(ctx, "shorten failed")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "shorten failed", entries[0].Message)
	require.Equal(t, int64(42), entries[0].ContextMap()["linkSetID"])
}

func TestLevels(t *testing.T) {
	l, logs := newObserved()
	ctx := logger.WithLogger(context.Background(), l)

	logger.Debug(ctx, "d")
	logger.Info(ctx, "i")
	logger.Warn(ctx, "w")
	logger.Error(ctx, "e")

	require.Equal(t, 4, logs.Len())
}
