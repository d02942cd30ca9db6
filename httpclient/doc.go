// Package httpclient is the default transport behind apiclient: a net/http
// adapter that sends one fully built request and returns status, headers
// and body.
//
// The adapter never interprets status codes. A 500 response is a normal
// return value; only failures to complete the exchange are errors, reported
// as *Error with a Code of timeout, connection, canceled, circuit_open,
// rate_limited or invalid_request.
//
// # Basic Usage
//
//	adapter, err := httpclient.New(httpclient.Config{
//	    Name:    "github",
//	    Timeout: 10 * time.Second,
//	})
//	resp, err := adapter.Send(ctx, &httpclient.Request{
//	    Method: http.MethodGet,
//	    URL:    "https://api.github.com/repos/golang/go",
//	})
//
// # With Resilience
//
//	cb := resilience.DefaultCircuitBreakerConfig("github")
//	adapter, err := httpclient.New(httpclient.Config{
//	    Name:           "github",
//	    CircuitBreaker: &cb,
//	})
//
// Every request runs inside an OpenTelemetry client span, and the span
// context is injected into the outgoing headers with the configured
// propagator.
package httpclient
