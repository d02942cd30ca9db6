package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kbukum/apikit/httpclient"
)

// Kind classifies a RequestError.
type Kind int

const (
	// KindTransport means the transport failed to complete the exchange.
	KindTransport Kind = iota + 1
	// KindInvalidResponseBody means a 2xx body could not be decoded into the success type.
	KindInvalidResponseBody
	// KindErrorPayload means a non-2xx body was decoded into the error payload type.
	KindErrorPayload
	// KindInvalidErrorBody means a non-2xx body could not be decoded into the error payload type.
	KindInvalidErrorBody
	// KindBuild means the request never reached the transport: a modifier
	// failed, parameters failed to encode or the URL was invalid.
	KindBuild
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindInvalidResponseBody:
		return "invalid_response_body"
	case KindErrorPayload:
		return "error_payload"
	case KindInvalidErrorBody:
		return "invalid_error_body"
	case KindBuild:
		return "build"
	default:
		return "unknown"
	}
}

// RequestError is the single error type produced by the pipeline.
// E is the caller's error payload type.
type RequestError[E any] struct {
	Kind Kind
	// StatusCode is the HTTP status, 0 for transport and build failures.
	StatusCode int
	// Body is the raw response body when one was received.
	Body []byte
	// Payload is the decoded error body. Set only for KindErrorPayload.
	Payload E
	// Err is the underlying cause. Nil only for KindErrorPayload.
	Err error
}

// Error implements the error interface.
func (e *RequestError[E]) Error() string {
	switch e.Kind {
	case KindErrorPayload:
		return fmt.Sprintf("apiclient: error payload (HTTP %d): %v", e.StatusCode, e.Payload)
	case KindInvalidResponseBody, KindInvalidErrorBody:
		return fmt.Sprintf("apiclient: %s (HTTP %d): %v", e.Kind, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("apiclient: %s: %v", e.Kind, e.Err)
	}
}

// Unwrap returns the underlying cause.
func (e *RequestError[E]) Unwrap() error {
	return e.Err
}

// RequestKind returns the kind. It lets callers classify errors without
// naming the payload type.
func (e *RequestError[E]) RequestKind() Kind {
	return e.Kind
}

// HTTPStatus returns the response status, or 0 when none was received.
func (e *RequestError[E]) HTTPStatus() int {
	return e.StatusCode
}

// classified is implemented by every RequestError instantiation.
type classified interface {
	error
	RequestKind() Kind
	HTTPStatus() int
}

func asClassified(err error) (classified, bool) {
	var c classified
	if errors.As(err, &c) {
		return c, true
	}
	return nil, false
}

// KindOf returns the kind of a RequestError in err's chain, or 0 if there is none.
func KindOf(err error) Kind {
	if c, ok := asClassified(err); ok {
		return c.RequestKind()
	}
	return 0
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if c, ok := asClassified(err); ok {
		return c.HTTPStatus()
	}
	return 0
}

// PayloadOf extracts the decoded error payload from err.
func PayloadOf[E any](err error) (E, bool) {
	var re *RequestError[E]
	if errors.As(err, &re) && re.Kind == KindErrorPayload {
		return re.Payload, true
	}
	var zero E
	return zero, false
}

// IsTransport checks if err is a transport failure.
func IsTransport(err error) bool { return KindOf(err) == KindTransport }

// IsInvalidResponseBody checks if a success body failed to decode.
func IsInvalidResponseBody(err error) bool { return KindOf(err) == KindInvalidResponseBody }

// IsErrorPayload checks if err carries a decoded error payload.
func IsErrorPayload(err error) bool { return KindOf(err) == KindErrorPayload }

// IsInvalidErrorBody checks if an error body failed to decode.
func IsInvalidErrorBody(err error) bool { return KindOf(err) == KindInvalidErrorBody }

// IsBuild checks if the request failed before reaching the transport.
func IsBuild(err error) bool { return KindOf(err) == KindBuild }

// IsNotFound checks if the server answered 404.
func IsNotFound(err error) bool { return StatusOf(err) == http.StatusNotFound }

// IsAuth checks if the server answered 401 or 403.
func IsAuth(err error) bool {
	s := StatusOf(err)
	return s == http.StatusUnauthorized || s == http.StatusForbidden
}

// IsRateLimit checks if the server answered 429 or the client-side limiter
// rejected the request.
func IsRateLimit(err error) bool {
	return StatusOf(err) == http.StatusTooManyRequests || httpclient.IsRateLimited(err)
}

// IsServerError checks if the server answered 5xx.
func IsServerError(err error) bool { return StatusOf(err) >= 500 }

// IsRetryable reports whether repeating the call could succeed: transport
// failures other than cancellation, 429 and 5xx responses.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindTransport:
		var he *httpclient.Error
		if errors.As(err, &he) {
			return he.Retryable()
		}
		return !errors.Is(err, context.Canceled)
	case KindErrorPayload, KindInvalidErrorBody:
		s := StatusOf(err)
		return s == http.StatusTooManyRequests || s >= 500
	default:
		return false
	}
}
