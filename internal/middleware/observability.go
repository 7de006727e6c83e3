// Package middleware instruments the gateway's HTTP surface: every
// request gets a span, a request id, counters and a timer; webhook
// routes additionally get per-platform delivery counters with masked
// identifier logging.
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"notigate/internal/httputil"
	"notigate/internal/metrics"
	"notigate/internal/privacy"
	"notigate/internal/service"
	"notigate/internal/tracing"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// statusRecorder captures the status code and body size a handler
// writes so the middleware can report them after the fact.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int64
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(data []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(data)
	rec.size += int64(n)
	return n, err
}

func levelForStatus(status int) logrus.Level {
	switch {
	case status >= 500:
		return logrus.ErrorLevel
	case status >= 400:
		return logrus.WarnLevel
	}
	return logrus.InfoLevel
}

// Observability wraps a handler with a span, request id, request
// counters and a duration timer.
func Observability(logger *logrus.Logger, registry *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.WithOtelTracing(r.Context(), "http_request")
			defer span.End()

			ctx = tracing.WithRequestID(ctx, tracing.GenerateRequestID())
			ctx = tracing.WithStartTime(ctx, time.Now())
			r = r.WithContext(ctx)

			clientIP := httputil.ClientIP(r)
			tracing.AddSpanAttributes(ctx,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", r.URL.Path),
				attribute.String("user_agent.original", r.Header.Get("User-Agent")),
				attribute.String("client.address", clientIP),
			)

			info := tracing.GetRequestInfo(ctx)
			logger.WithFields(logrus.Fields{
				service.LogFieldRequestID: info.RequestID,
				service.LogFieldTraceID:   info.TraceID,
				service.LogFieldMethod:    r.Method,
				service.LogFieldURL:       r.URL.Path,
				service.LogFieldRemoteIP:  clientIP,
			}).Debug("HTTP request started")

			registry.IncrementCounter("http_requests_total", map[string]string{
				"method":   r.Method,
				"endpoint": r.URL.Path,
			})

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			duration := tracing.Duration(ctx)
			tracing.AddSpanAttributes(ctx,
				attribute.Int("http.response.status_code", rec.status),
				attribute.Int64("http.response.size", rec.size),
				attribute.Int64("http.request.duration_ms", duration.Milliseconds()),
			)
			if rec.status >= 400 {
				tracing.SetSpanStatus(ctx, codes.Error, fmt.Sprintf("HTTP %d", rec.status))
			} else {
				tracing.SetSpanStatus(ctx, codes.Ok, "")
			}

			registry.RecordTimer("http_request_duration", duration, map[string]string{
				"method":      r.Method,
				"endpoint":    r.URL.Path,
				"status_code": strconv.Itoa(rec.status),
			})

			logger.WithFields(logrus.Fields{
				service.LogFieldRequestID:  info.RequestID,
				service.LogFieldTraceID:    info.TraceID,
				service.LogFieldMethod:     r.Method,
				service.LogFieldURL:        r.URL.Path,
				service.LogFieldStatusCode: rec.status,
				service.LogFieldDuration:   duration.Milliseconds(),
				service.LogFieldSize:       rec.size,
			}).Log(levelForStatus(rec.status), "HTTP request completed")
		})
	}
}

// WebhookObservability adds per-platform webhook counters on top of
// the base instrumentation. webhookType is the inbound platform name.
// Log field values that may carry identifiers pass through privacy
// masking first.
func WebhookObservability(logger *logrus.Logger, registry *metrics.Registry, webhookType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ctx, span := tracing.WithOtelTracing(r.Context(), "webhook_request")
			defer span.End()
			r = r.WithContext(ctx)

			clientIP := httputil.ClientIP(r)
			tracing.AddSpanAttributes(ctx,
				attribute.String("webhook.type", webhookType),
				attribute.String("http.method", r.Method),
				attribute.String("client.address", clientIP),
				attribute.Int64("http.request.content_length", r.ContentLength),
			)

			registry.IncrementCounter("webhook_requests_total", map[string]string{
				"type": webhookType,
			})

			info := tracing.GetRequestInfo(ctx)
			logger.WithFields(logrus.Fields(privacy.MaskSensitiveFields(map[string]interface{}{
				service.LogFieldRequestID: info.RequestID,
				service.LogFieldTraceID:   info.TraceID,
				service.LogFieldService:   "webhook",
				service.LogFieldComponent: webhookType,
				service.LogFieldRemoteIP:  clientIP,
				"content_length":          r.ContentLength,
			}))).Debug("Webhook request started")

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			tracing.AddSpanAttributes(ctx,
				attribute.Int("http.response.status_code", rec.status),
				attribute.Int64("webhook.processing_duration_ms", elapsed.Milliseconds()),
			)

			if rec.status >= 400 {
				tracing.SetSpanStatus(ctx, codes.Error, fmt.Sprintf("Webhook failed with HTTP %d", rec.status))
				registry.IncrementCounter("webhook_errors_total", map[string]string{
					"type":        webhookType,
					"status_code": strconv.Itoa(rec.status),
				})
			} else {
				tracing.SetSpanStatus(ctx, codes.Ok, "Webhook processed")
				registry.IncrementCounter("webhook_success_total", map[string]string{
					"type": webhookType,
				})
			}

			registry.RecordTimer("webhook_processing_duration", elapsed, map[string]string{
				"type":        webhookType,
				"status_code": strconv.Itoa(rec.status),
			})

			level := logrus.InfoLevel
			if rec.status >= 400 {
				level = logrus.ErrorLevel
			}
			logger.WithFields(logrus.Fields(privacy.MaskSensitiveFields(map[string]interface{}{
				service.LogFieldRequestID:  info.RequestID,
				service.LogFieldTraceID:    info.TraceID,
				service.LogFieldService:    "webhook",
				service.LogFieldComponent:  webhookType,
				service.LogFieldStatusCode: rec.status,
				service.LogFieldDuration:   elapsed.Milliseconds(),
			}))).Log(level, "Webhook request completed")
		})
	}
}
