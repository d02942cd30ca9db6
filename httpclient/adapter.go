package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http2"

	"github.com/kbukum/apikit/resilience"
)

const instrumentationName = "github.com/kbukum/apikit/httpclient"

// Span attribute keys, following the OpenTelemetry HTTP client conventions.
const (
	attrMethod     = "http.request.method"
	attrURL        = "url.full"
	attrStatusCode = "http.response.status_code"
	attrClient     = "apikit.client"
)

// errUpstreamStatus marks a 5xx response as a breaker failure without
// turning it into a transport error.
var errUpstreamStatus = errors.New("upstream returned server error")

// Adapter sends requests over net/http with optional TLS, HTTP/2, circuit
// breaking, rate limiting and tracing. It is safe for concurrent use.
type Adapter struct {
	httpClient *http.Client
	config     Config
	cb         *resilience.CircuitBreaker
	rl         *resilience.RateLimiter
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator

	tracerProvider trace.TracerProvider
	roundTripper   http.RoundTripper
}

// New creates a new HTTP adapter with the given configuration.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Adapter{config: cfg}
	for _, opt := range opts {
		opt(a)
	}

	rt := a.roundTripper
	if rt == nil {
		transport, err := newTransport(cfg)
		if err != nil {
			return nil, err
		}
		rt = transport
	}
	a.httpClient = &http.Client{
		Transport: rt,
		Timeout:   cfg.Timeout,
	}

	if a.tracerProvider == nil {
		a.tracerProvider = otel.GetTracerProvider()
	}
	a.tracer = a.tracerProvider.Tracer(instrumentationName)
	if a.propagator == nil {
		a.propagator = otel.GetTextMapPropagator()
	}

	if cfg.CircuitBreaker != nil {
		a.cb = resilience.NewCircuitBreaker(*cfg.CircuitBreaker)
	}
	if cfg.RateLimiter != nil {
		a.rl = resilience.NewRateLimiter(*cfg.RateLimiter)
	}
	return a, nil
}

func newTransport(cfg Config) (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = cfg.MaxIdleConns
	transport.IdleConnTimeout = cfg.IdleConnTimeout
	transport.ForceAttemptHTTP2 = false

	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, fmt.Errorf("httpclient: %w", err)
		}
		if tlsCfg != nil {
			transport.TLSClientConfig = tlsCfg
		}
	}

	if cfg.EnableHTTP2 {
		if err := http2.ConfigureTransport(transport); err != nil {
			return nil, fmt.Errorf("httpclient: configure http2: %w", err)
		}
	}
	return transport, nil
}

// Send performs one exchange. Any received response is returned without
// error regardless of status; errors are always *Error.
func (a *Adapter) Send(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, newError(ErrCodeInvalidRequest, errors.New("nil request"))
	}

	ctx, span := a.tracer.Start(ctx, "HTTP "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(attrMethod, req.Method),
			attribute.String(attrURL, stripQuery(req.URL)),
			attribute.String(attrClient, a.config.Name),
		),
	)
	defer span.End()

	resp, err := a.send(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int(attrStatusCode, resp.StatusCode))
	if resp.StatusCode >= 500 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}
	return resp, nil
}

func (a *Adapter) send(ctx context.Context, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, classify(ctx, err)
	}

	if a.rl != nil {
		if err := a.rl.Wait(ctx); err != nil {
			return nil, classify(ctx, err)
		}
	}

	if a.cb == nil {
		return a.do(ctx, req)
	}

	var (
		resp  *Response
		doErr error
	)
	err := a.cb.Execute(func() error {
		resp, doErr = a.do(ctx, req)
		switch {
		case doErr != nil && (IsTimeout(doErr) || IsConnection(doErr)):
			return doErr
		case doErr == nil && resp.StatusCode >= 500:
			return errUpstreamStatus
		default:
			return nil
		}
	})
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return nil, classify(ctx, err)
	}
	return resp, doErr
}

// do executes a single HTTP round trip and reads the whole body.
func (a *Adapter) do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, newError(ErrCodeInvalidRequest, err)
	}
	if httpReq.URL.Scheme == "" || httpReq.URL.Host == "" {
		return nil, newError(ErrCodeInvalidRequest, fmt.Errorf("url %q is not absolute", req.URL))
	}

	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	a.propagator.Inject(ctx, propagation.HeaderCarrier(httpReq.Header))

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, classify(ctx, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(ctx, fmt.Errorf("read response body: %w", err))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       data,
	}, nil
}

// stripQuery drops the query string, which may carry credentials.
func stripQuery(u string) string {
	base, _, _ := strings.Cut(u, "?")
	return base
}

// Name returns the configured transport name.
func (a *Adapter) Name() string {
	return a.config.Name
}

// IsAvailable reports whether requests would currently be let through.
func (a *Adapter) IsAvailable(_ context.Context) bool {
	if a.cb != nil {
		return a.cb.State() != resilience.StateOpen
	}
	return true
}

// CircuitState returns the breaker state, or StateClosed when no breaker is configured.
func (a *Adapter) CircuitState() resilience.State {
	if a.cb == nil {
		return resilience.StateClosed
	}
	return a.cb.State()
}

// Close releases idle connections.
func (a *Adapter) Close(_ context.Context) error {
	a.httpClient.CloseIdleConnections()
	return nil
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (a *Adapter) Unwrap() *http.Client {
	return a.httpClient
}

// Config returns the adapter's effective configuration.
func (a *Adapter) Config() Config {
	return a.config
}
