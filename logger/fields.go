package logger

import (
	"time"
)

// Standard field keys.
const (
	FieldComponent  = "component"
	FieldClient     = "client"
	FieldRequestID  = "request_id"
	FieldTraceID    = "trace_id"
	FieldMethod     = "method"
	FieldURL        = "url"
	FieldStatus     = "status"
	FieldErrorKind  = "error_kind"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldOperation  = "operation"
	FieldConfigFile = "config_file"
)

// Fields builds a field map from alternating key-value pairs.
// Non-string keys and a trailing odd value are ignored.
//
//	logger.Debug("sent", logger.Fields("method", "GET", "status", 200))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for an operation that failed.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// DurationFields creates fields for a timed operation.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldDuration:  d.Milliseconds(),
	}
}
