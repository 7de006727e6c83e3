package tracing

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequestID(t *testing.T) {
	a := GenerateRequestID()
	b := GenerateRequestID()

	assert.True(t, strings.HasPrefix(a, "req_"))
	assert.NotEqual(t, a, b)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()

	start := time.Now()
	ctx = WithRequestID(ctx, "req_abc")
	ctx = WithTraceID(ctx, "trace_def")
	ctx = WithStartTime(ctx, start)

	info := GetRequestInfo(ctx)
	assert.Equal(t, "req_abc", info.RequestID)
	assert.Equal(t, "trace_def", info.TraceID)
	assert.Equal(t, start, info.StartTime)
}

func TestContextDefaults(t *testing.T) {
	ctx := context.Background()

	info := GetRequestInfo(ctx)
	assert.Empty(t, info.RequestID)
	assert.Empty(t, info.TraceID)
	assert.True(t, info.StartTime.IsZero())
	assert.Equal(t, time.Duration(0), Duration(ctx))
}

func TestDuration(t *testing.T) {
	ctx := WithStartTime(context.Background(), time.Now().Add(-50*time.Millisecond))
	assert.GreaterOrEqual(t, Duration(ctx), 50*time.Millisecond)
}

func TestTracingManagerDisabled(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	tm := NewTracingManager(TracingConfig{Enabled: false}, logger)
	require.NoError(t, tm.Initialize(context.Background()))
	require.NoError(t, tm.Shutdown(context.Background()))
}

func TestTracingManagerStdout(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)

	cfg := DefaultTracingConfig()
	cfg.Enabled = true
	cfg.UseStdout = true

	tm := NewTracingManager(cfg, logger)
	require.NoError(t, tm.Initialize(context.Background()))
	require.NoError(t, tm.Shutdown(context.Background()))
}

func TestWithOtelTracing(t *testing.T) {
	ctx, span := WithOtelTracing(context.Background(), "test_span")
	defer span.End()

	// Without an initialized provider the span is a no-op, but the
	// call must still be safe and return a usable context.
	assert.NotNil(t, ctx)
}
