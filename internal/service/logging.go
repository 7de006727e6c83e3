package service

// Logging Standards for Notigate
//
// This file defines standard field names and patterns to ensure
// consistent logging across the application.

// Standard Field Names
// Use these exact field names for consistency across all logging calls
const (
	// Core identifiers
	LogFieldUserID   = "user_id"
	LogFieldChatID   = "chat_id"
	LogFieldSenderID = "sender_id"
	LogFieldEmail    = "email"

	// Service and operation fields
	LogFieldService   = "service"
	LogFieldOperation = "operation"
	LogFieldComponent = "component"
	LogFieldMethod    = "method"

	// Request tracing
	LogFieldRequestID = "request_id"
	LogFieldTraceID   = "trace_id"

	// Message and event fields
	LogFieldEvent     = "event"
	LogFieldPlatform  = "platform"
	LogFieldDirection = "direction" // "incoming" or "outgoing"

	// Performance and metrics
	LogFieldDuration = "duration_ms"
	LogFieldCount    = "count"
	LogFieldSize     = "size_bytes"

	// Network and external services
	LogFieldURL        = "url"
	LogFieldEndpoint   = "endpoint"
	LogFieldStatusCode = "status_code"
	LogFieldRemoteIP   = "remote_ip"
	LogFieldUserAgent  = "user_agent"

	// Error and debugging
	LogFieldErrorCode = "error_code"
	LogFieldAttempt   = "attempt"
)

// Log Level Usage Guidelines
//
// DEBUG: Detailed flow information, sanitized request/response data.
// INFO: Startup/shutdown, services started/stopped, successful sends.
// WARN: Retryable errors, disabled adapters, unparseable webhooks.
// ERROR: Failed sends, token refresh failures, external service errors.
// FATAL: Configuration required for startup is missing.
