package httpclient

import (
	"net/http"

	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an Adapter.
type Option func(*Adapter)

// WithTracerProvider sets the provider for client spans. Defaults to the
// global otel provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(a *Adapter) { a.tracerProvider = tp }
}

// WithPropagator sets the propagator used to inject span context into
// outgoing headers. Defaults to the global otel propagator.
func WithPropagator(p propagation.TextMapPropagator) Option {
	return func(a *Adapter) { a.propagator = p }
}

// WithRoundTripper replaces the configured transport entirely. TLS, HTTP/2
// and connection pool settings are then ignored.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(a *Adapter) { a.roundTripper = rt }
}
