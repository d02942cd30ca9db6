package apiclient

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kbukum/apikit/component"
	"github.com/kbukum/apikit/httpclient"
	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/params"
	"github.com/kbukum/apikit/version"
)

// Base is a ready-made client implementing Identity, Defaults, Modifier,
// Observer, LoggerProvider, StrictDecoder and component.Component. Embed it
// and override any method on the outer type; the pipeline always inspects
// the value it is given.
type Base struct {
	name      string
	baseURL   string
	headers   map[string]string
	params    params.Set
	transport Transport
	modifiers []Modifier
	observers []Observer
	log       *logger.Logger
	strict    bool

	httpOpts []httpclient.Option
}

var (
	_ Identity            = (*Base)(nil)
	_ Defaults            = (*Base)(nil)
	_ Modifier            = (*Base)(nil)
	_ Observer            = (*Base)(nil)
	_ LoggerProvider      = (*Base)(nil)
	_ StrictDecoder       = (*Base)(nil)
	_ component.Component = (*Base)(nil)
)

// Option configures a Base.
type Option func(*Base)

// WithTransport replaces the HTTP adapter built from Config.Transport.
func WithTransport(t Transport) Option {
	return func(b *Base) { b.transport = t }
}

// WithModifier appends modifiers after the configured auth and request ID modifiers.
func WithModifier(mods ...Modifier) Option {
	return func(b *Base) { b.modifiers = append(b.modifiers, mods...) }
}

// WithObserver adds observers notified after every call.
func WithObserver(obs ...Observer) Option {
	return func(b *Base) { b.observers = append(b.observers, obs...) }
}

// WithLogger sets the logger for per-call log lines.
func WithLogger(l *logger.Logger) Option {
	return func(b *Base) { b.log = l }
}

// WithHTTPOptions passes options to the HTTP adapter built from Config.Transport.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(b *Base) { b.httpOpts = append(b.httpOpts, opts...) }
}

// New builds a client from cfg.
func New(cfg Config, opts ...Option) (*Base, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b := &Base{
		name:    cfg.Name,
		baseURL: cfg.BaseURL,
		headers: make(map[string]string, len(cfg.Headers)),
		params:  cfg.Params.Clone(),
		strict:  cfg.StrictDecoding,
	}
	for k, v := range cfg.Headers {
		b.headers[k] = v
	}
	if !hasHeader(b.headers, "User-Agent") {
		b.headers["User-Agent"] = version.UserAgent()
	}

	auth, err := cfg.Auth.Modifier()
	if err != nil {
		return nil, err
	}
	if auth != nil {
		b.modifiers = append(b.modifiers, auth)
	}
	if cfg.RequestIDHeader != "" {
		b.modifiers = append(b.modifiers, RequestID(cfg.RequestIDHeader))
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.transport == nil {
		adapter, err := httpclient.New(cfg.Transport, b.httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("apiclient: %s: %w", cfg.Name, err)
		}
		b.transport = adapter
	}
	return b, nil
}

// Name returns the client name.
func (b *Base) Name() string { return b.name }

// BaseURL returns the configured base URL.
func (b *Base) BaseURL() string { return b.baseURL }

// Transport returns the transport.
func (b *Base) Transport() Transport { return b.transport }

// DefaultHeaders returns a copy of the configured headers.
func (b *Base) DefaultHeaders() map[string]string {
	out := make(map[string]string, len(b.headers))
	for k, v := range b.headers {
		out[k] = v
	}
	return out
}

// DefaultParams returns a copy of the configured parameters.
func (b *Base) DefaultParams() params.Set { return b.params.Clone() }

// Modify runs the configured modifiers in order.
func (b *Base) Modify(ctx context.Context, d *Descriptor) error {
	for _, m := range b.modifiers {
		if err := m.Modify(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// Observe forwards the event to every observer.
func (b *Base) Observe(ctx context.Context, ev Event) {
	for _, o := range b.observers {
		o.Observe(ctx, ev)
	}
}

// StrictDecoding reports whether responses are decoded strictly.
func (b *Base) StrictDecoding() bool { return b.strict }

// Logger returns the client's logger.
func (b *Base) Logger() *logger.Logger {
	if b.log == nil {
		return logger.Get("apiclient")
	}
	return b.log
}

// Start is a no-op; the transport is ready once New returns.
func (b *Base) Start(context.Context) error { return nil }

// Stop releases the transport's idle connections when it supports it.
func (b *Base) Stop(ctx context.Context) error {
	switch t := b.transport.(type) {
	case interface{ Close(context.Context) error }:
		return t.Close(ctx)
	case io.Closer:
		return t.Close()
	}
	return nil
}

// Health reports unhealthy while the transport refuses requests.
func (b *Base) Health(ctx context.Context) component.Health {
	h := component.Health{Name: b.name, Status: component.StatusHealthy}
	if a, ok := b.transport.(interface{ IsAvailable(context.Context) bool }); ok && !a.IsAvailable(ctx) {
		h.Status = component.StatusUnhealthy
		h.Message = "transport unavailable"
	}
	return h
}

// Describe summarizes the client.
func (b *Base) Describe() component.Description {
	return component.Description{Name: b.name, Type: "api-client", Details: b.baseURL}
}

func hasHeader(headers map[string]string, key string) bool {
	for k := range headers {
		if strings.EqualFold(k, key) {
			return true
		}
	}
	return false
}
