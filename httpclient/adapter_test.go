package httpclient

import (
	"context"
	"encoding/pem"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/apikit/resilience"
	"github.com/kbukum/apikit/security"
)

func newAdapter(t *testing.T, cfg Config, opts ...Option) *Adapter {
	t.Helper()
	a, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return a
}

func TestAdapter_Send_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/users/123" || r.URL.RawQuery != "expand=true" {
			t.Errorf("unexpected url %s", r.URL.String())
		}
		if got := r.Header.Get("X-Trace"); got != "abc" {
			t.Errorf("got X-Trace %q, want abc", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"name":"Alice"}`)
	}))
	defer srv.Close()

	a := newAdapter(t, Config{Name: "users"})
	resp, err := a.Send(context.Background(), &Request{
		Method:  http.MethodGet,
		URL:     srv.URL + "/users/123?expand=true",
		Headers: map[string]string{"X-Trace": "abc"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != 200 || !resp.IsSuccess() {
		t.Errorf("got status %d, want 200", resp.StatusCode)
	}
	if string(resp.Body) != `{"name":"Alice"}` {
		t.Errorf("got body %q", resp.Body)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("got headers %v", resp.Headers)
	}
}

func TestAdapter_Send_POSTBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"name":"Bob"}` {
			t.Errorf("got body %q", body)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("got content type %q", ct)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	a := newAdapter(t, Config{})
	resp, err := a.Send(context.Background(), &Request{
		Method:  http.MethodPost,
		URL:     srv.URL + "/users",
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    []byte(`{"name":"Bob"}`),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("got status %d, want 201", resp.StatusCode)
	}
}

func TestAdapter_Send_ErrorStatusIsNotAnError(t *testing.T) {
	for _, status := range []int{400, 404, 429, 500, 503} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, `{"message":"bad"}`)
		}))

		a := newAdapter(t, Config{})
		resp, err := a.Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
		srv.Close()

		if err != nil {
			t.Errorf("status %d: unexpected error %v", status, err)
			continue
		}
		if resp.StatusCode != status || resp.IsSuccess() {
			t.Errorf("got status %d, want %d", resp.StatusCode, status)
		}
		if string(resp.Body) != `{"message":"bad"}` {
			t.Errorf("status %d: got body %q", status, resp.Body)
		}
	}
}

func TestAdapter_Send_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	a := newAdapter(t, Config{Timeout: 2 * time.Second})
	_, err := a.Send(context.Background(), &Request{Method: http.MethodGet, URL: url})
	if !IsConnection(err) {
		t.Fatalf("expected connection error, got %v", err)
	}
	if !IsRetryable(err) {
		t.Error("connection errors should be retryable")
	}
}

func TestAdapter_Send_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	a := newAdapter(t, Config{Timeout: 50 * time.Millisecond})
	_, err := a.Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestAdapter_Send_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	a := newAdapter(t, Config{})
	_, err := a.Send(ctx, &Request{Method: http.MethodGet, URL: srv.URL})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestAdapter_Send_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	a := newAdapter(t, Config{})
	_, err := a.Send(ctx, &Request{Method: http.MethodGet, URL: "http://127.0.0.1:1"})
	if !IsCanceled(err) {
		t.Fatalf("expected canceled error, got %v", err)
	}
	if IsRetryable(err) {
		t.Error("cancellation should not be retryable")
	}
}

func TestAdapter_Send_InvalidRequest(t *testing.T) {
	a := newAdapter(t, Config{})
	tests := []struct {
		name string
		req  *Request
	}{
		{"nil request", nil},
		{"relative url", &Request{Method: http.MethodGet, URL: "/users"}},
		{"malformed url", &Request{Method: http.MethodGet, URL: "http://[::1"}},
		{"bad method", &Request{Method: "BAD METHOD", URL: "http://example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Send(context.Background(), tt.req)
			if !IsInvalidRequest(err) {
				t.Errorf("expected invalid_request, got %v", err)
			}
		})
	}
}

func TestAdapter_CircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cb := resilience.CircuitBreakerConfig{MaxFailures: 2, Timeout: time.Minute}
	a := newAdapter(t, Config{Name: "flaky", CircuitBreaker: &cb})

	for i := 0; i < 2; i++ {
		resp, err := a.Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
		if err != nil {
			t.Fatalf("call %d: unexpected error %v", i, err)
		}
		if resp.StatusCode != http.StatusServiceUnavailable {
			t.Fatalf("call %d: got status %d", i, resp.StatusCode)
		}
	}

	if a.IsAvailable(context.Background()) {
		t.Error("expected circuit to be open")
	}
	_, err := a.Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL})
	if !IsCircuitOpen(err) {
		t.Fatalf("expected circuit_open error, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("got %d upstream calls, want 2", calls.Load())
	}
	if cb.Name != "" {
		t.Error("caller's breaker config should not be modified")
	}
}

func TestAdapter_CircuitBreakerIgnoresClientErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cb := resilience.CircuitBreakerConfig{MaxFailures: 1, Timeout: time.Minute}
	a := newAdapter(t, Config{CircuitBreaker: &cb})
	for i := 0; i < 3; i++ {
		if _, err := a.Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL}); err != nil {
			t.Fatalf("call %d: unexpected error %v", i, err)
		}
	}
	if a.CircuitState() != resilience.StateClosed {
		t.Errorf("got state %s, want closed", a.CircuitState())
	}
}

func TestAdapter_RateLimiter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	var limited []string
	rl := resilience.RateLimiterConfig{Rate: 0.5, Burst: 1, OnLimit: func(name string) { limited = append(limited, name) }}
	a := newAdapter(t, Config{Name: "limited", RateLimiter: &rl})

	if _, err := a.Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL}); err != nil {
		t.Fatalf("first call: unexpected error %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := a.Send(ctx, &Request{Method: http.MethodGet, URL: srv.URL})
	if !IsRateLimited(err) {
		t.Fatalf("expected rate_limited error, got %v", err)
	}
	if len(limited) != 1 || limited[0] != "limited" {
		t.Errorf("got OnLimit calls %v, want [limited]", limited)
	}
}

func TestAdapter_TracingAndPropagation(t *testing.T) {
	var traceparent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceparent = r.Header.Get("Traceparent")
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	a := newAdapter(t, Config{Name: "traced"},
		WithTracerProvider(tp),
		WithPropagator(propagation.TraceContext{}),
	)
	if _, err := a.Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL + "/x?api_key=secret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	span := spans[0]
	if span.Name() != "HTTP GET" {
		t.Errorf("got span name %q", span.Name())
	}
	if span.SpanKind() != trace.SpanKindClient {
		t.Errorf("got span kind %v", span.SpanKind())
	}
	if span.Status().Code != codes.Error {
		t.Errorf("expected error status for 502, got %v", span.Status().Code)
	}

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	if attrs[attrStatusCode].AsInt64() != 502 {
		t.Errorf("got status attribute %v", attrs[attrStatusCode])
	}
	if attrs[attrClient].AsString() != "traced" {
		t.Errorf("got client attribute %v", attrs[attrClient])
	}
	if got := attrs[attrURL].AsString(); got != srv.URL+"/x" {
		t.Errorf("url attribute must not carry the query, got %q", got)
	}

	if !strings.Contains(traceparent, span.SpanContext().TraceID().String()) {
		t.Errorf("traceparent %q does not carry trace id %s", traceparent, span.SpanContext().TraceID())
	}
}

func TestAdapter_TracingRecordsTransportError(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	a := newAdapter(t, Config{}, WithTracerProvider(tp))
	_, _ = a.Send(context.Background(), &Request{Method: http.MethodGet, URL: "/relative"})

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status().Code)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected the error to be recorded as an event")
	}
}

func TestAdapter_HTTP2(t *testing.T) {
	var proto atomic.Int32
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proto.Store(int32(r.ProtoMajor))
	}))
	srv.EnableHTTP2 = true
	srv.StartTLS()
	defer srv.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(caFile, pemBytes, 0o600); err != nil {
		t.Fatalf("write CA: %v", err)
	}

	tests := []struct {
		name      string
		http2     bool
		wantMajor int32
	}{
		{"http1 by default", false, 1},
		{"http2 enabled", true, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAdapter(t, Config{
				EnableHTTP2: tt.http2,
				TLS:         &security.TLSConfig{CAFile: caFile},
			})
			defer func() { _ = a.Close(context.Background()) }()

			if _, err := a.Send(context.Background(), &Request{Method: http.MethodGet, URL: srv.URL}); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := proto.Load(); got != tt.wantMajor {
				t.Errorf("got HTTP/%d, want HTTP/%d", got, tt.wantMajor)
			}
		})
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestAdapter_WithRoundTripper(t *testing.T) {
	rt := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusTeapot,
			Header:     http.Header{"X-Stub": []string{"yes"}},
			Body:       io.NopCloser(strings.NewReader("short and stout")),
			Request:    r,
		}, nil
	})

	a := newAdapter(t, Config{}, WithRoundTripper(rt))
	resp, err := a.Send(context.Background(), &Request{Method: http.MethodGet, URL: "http://stub.local/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusTeapot || resp.Headers["X-Stub"] != "yes" || string(resp.Body) != "short and stout" {
		t.Errorf("unexpected response %+v", resp)
	}
	if a.Unwrap().Transport == nil {
		t.Error("expected transport on underlying client")
	}
}
