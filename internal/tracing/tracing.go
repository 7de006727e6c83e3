// Package tracing carries log-correlation identifiers through a
// request's context and manages the OpenTelemetry pipeline. Both the
// HTTP surface and the schedulers tag their work with a request id so
// a webhook, its normalized event and the resulting outbound send can
// be tied together in the logs.
package tracing

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	traceIDKey   contextKey = "trace_id"
	startTimeKey contextKey = "start_time"
)

// RequestInfo is the correlation snapshot for one in-flight request.
type RequestInfo struct {
	RequestID string    `json:"request_id"`
	TraceID   string    `json:"trace_id"`
	StartTime time.Time `json:"start_time"`
}

// GenerateRequestID returns a process-unique request identifier.
func GenerateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// crypto rand is effectively infallible; fall back anyway
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// WithRequestID stores a request id in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// WithTraceID stores a trace id in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// WithStartTime stores the request start time in the context.
func WithStartTime(ctx context.Context, start time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey, start)
}

// GetRequestInfo reads the correlation snapshot back out of the
// context. Missing values come back zero, never an error.
func GetRequestInfo(ctx context.Context) *RequestInfo {
	info := &RequestInfo{}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		info.RequestID = v
	}
	if v, ok := ctx.Value(traceIDKey).(string); ok {
		info.TraceID = v
	}
	if v, ok := ctx.Value(startTimeKey).(time.Time); ok {
		info.StartTime = v
	}
	return info
}

// Duration returns the elapsed time since the start time stored in the
// context, or zero when none was stored.
func Duration(ctx context.Context) time.Duration {
	info := GetRequestInfo(ctx)
	if info.StartTime.IsZero() {
		return 0
	}
	return time.Since(info.StartTime)
}
