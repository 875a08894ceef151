package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogRequest logs one round trip against the backend. 4xx responses are
// warnings and 5xx responses are errors.
func LogRequest(l Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}

	switch {
	case statusCode >= 500:
		Or(l).ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		Or(l).WarnWithFields("HTTP request client error", fields)
	default:
		Or(l).DebugWithFields("HTTP request completed", fields)
	}
}

// LogUploadState records a transition of the chunked upload state machine
func LogUploadState(l Logger, uploadID, from, to string) {
	Or(l).DebugWithFields("Upload state changed", map[string]interface{}{
		"upload_id": uploadID,
		"from":      from,
		"to":        to,
	})
}

// LogPartialPages logs a collection walk that stopped after a failed page
func LogPartialPages(l Logger, collection string, pages int, err error) {
	Or(l).WithError(err).WarnWithFields("Not all pages were downloaded", map[string]interface{}{
		"collection": collection,
		"pages":      pages,
	})
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (n nopLogger) Debug(string)                                      {}
func (n nopLogger) Info(string)                                       {}
func (n nopLogger) Warn(string)                                       {}
func (n nopLogger) Error(string)                                      {}
func (n nopLogger) Fatal(string)                                      {}
func (n nopLogger) WithField(string, interface{}) Logger              { return n }
func (n nopLogger) WithFields(map[string]interface{}) Logger          { return n }
func (n nopLogger) WithError(error) Logger                            { return n }
func (n nopLogger) WithContext(context.Context) Logger                { return n }
func (n nopLogger) DebugWithFields(string, map[string]interface{})    {}
func (n nopLogger) InfoWithFields(string, map[string]interface{})     {}
func (n nopLogger) WarnWithFields(string, map[string]interface{})     {}
func (n nopLogger) ErrorWithFields(string, map[string]interface{})    {}
func (n nopLogger) FatalWithFields(string, map[string]interface{})    {}
func (n nopLogger) GetZerolog() *zerolog.Logger                       { nop := zerolog.Nop(); return &nop }
