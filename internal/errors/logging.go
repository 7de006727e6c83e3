package errors

import (
	"github.com/sirupsen/logrus"
)

// entryFor attaches AppError context (code, retryable flag, custom
// context) to a log entry so every component logs failures the same way.
func entryFor(logger *logrus.Logger, err error) *logrus.Entry {
	entry := logger.WithError(err)

	if appErr, ok := err.(*AppError); ok {
		entry = entry.WithFields(logrus.Fields{
			"error_code": appErr.Code,
			"retryable":  appErr.Retryable,
		})
		for k, v := range appErr.Context {
			entry = entry.WithField(k, v)
		}
	}

	return entry
}

// LogError logs err at error level with structured AppError context.
func LogError(logger *logrus.Logger, err error, message string, fields ...logrus.Fields) {
	entry := entryFor(logger, err)
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	entry.Error(message)
}

// LogWarn logs err at warn level with structured AppError context.
func LogWarn(logger *logrus.Logger, err error, message string, fields ...logrus.Fields) {
	entry := entryFor(logger, err)
	for _, f := range fields {
		entry = entry.WithFields(f)
	}
	entry.Warn(message)
}

// LogRetryableError logs retryable errors at warn level and
// non-retryable errors at error level.
func LogRetryableError(logger *logrus.Logger, err error, message string, fields ...logrus.Fields) {
	if IsRetryable(err) {
		LogWarn(logger, err, message, fields...)
	} else {
		LogError(logger, err, message, fields...)
	}
}
