package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/kbukum/apikit/resilience"
)

// ErrorCode classifies transport failures.
type ErrorCode int

const (
	// ErrCodeTimeout indicates the request or the caller's deadline timed out.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, TLS, reset).
	ErrCodeConnection
	// ErrCodeCanceled indicates the caller canceled the context.
	ErrCodeCanceled
	// ErrCodeCircuitOpen indicates the circuit breaker rejected the request.
	ErrCodeCircuitOpen
	// ErrCodeRateLimited indicates the client-side rate limiter rejected the request.
	ErrCodeRateLimited
	// ErrCodeInvalidRequest indicates the request could not be built (bad URL or method).
	ErrCodeInvalidRequest
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeCanceled:
		return "canceled"
	case ErrCodeCircuitOpen:
		return "circuit_open"
	case ErrCodeRateLimited:
		return "rate_limited"
	case ErrCodeInvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Error is a classified transport failure. No response was received.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the request could succeed.
func (e *Error) Retryable() bool {
	switch e.Code {
	case ErrCodeTimeout, ErrCodeConnection, ErrCodeCircuitOpen, ErrCodeRateLimited:
		return true
	default:
		return false
	}
}

func newError(code ErrorCode, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Err: err}
}

// classify maps an error from the send path to a coded *Error.
func classify(ctx context.Context, err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	switch {
	case errors.Is(err, resilience.ErrCircuitOpen):
		return newError(ErrCodeCircuitOpen, err)
	case errors.Is(err, resilience.ErrRateLimited):
		return newError(ErrCodeRateLimited, err)
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return newError(ErrCodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return newError(ErrCodeTimeout, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return newError(ErrCodeTimeout, err)
	}
	return newError(ErrCodeConnection, err)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsCanceled checks if an error is a cancellation.
func IsCanceled(err error) bool { return hasCode(err, ErrCodeCanceled) }

// IsCircuitOpen checks if the circuit breaker rejected the request.
func IsCircuitOpen(err error) bool { return hasCode(err, ErrCodeCircuitOpen) }

// IsRateLimited checks if the rate limiter rejected the request.
func IsRateLimited(err error) bool { return hasCode(err, ErrCodeRateLimited) }

// IsInvalidRequest checks if the request could not be built.
func IsInvalidRequest(err error) bool { return hasCode(err, ErrCodeInvalidRequest) }

// IsRetryable checks if an error is a retryable transport error.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable()
}
