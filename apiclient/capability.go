package apiclient

import (
	"context"
	"time"

	"github.com/kbukum/apikit/httpclient"
	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/params"
)

// Transport sends one fully built request. *httpclient.Adapter implements it.
type Transport interface {
	Send(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error)
}

// Identity is the only capability a client must implement.
type Identity interface {
	BaseURL() string
	Transport() Transport
}

// Defaults supplies headers and query parameters applied to every call.
// Implementations must return values the pipeline may read concurrently;
// the pipeline never modifies them.
type Defaults interface {
	DefaultHeaders() map[string]string
	DefaultParams() params.Set
}

// Builder replaces BuildDescriptor for a client. Implementations usually
// call BuildDescriptor and adjust the result; default headers are only
// applied if they do.
type Builder interface {
	Build(method, path string) (*Descriptor, error)
}

// Modifier adjusts a descriptor before it is sent.
type Modifier interface {
	Modify(ctx context.Context, d *Descriptor) error
}

// ModifierFunc adapts a function to Modifier.
type ModifierFunc func(ctx context.Context, d *Descriptor) error

// Modify calls f.
func (f ModifierFunc) Modify(ctx context.Context, d *Descriptor) error {
	return f(ctx, d)
}

// Chain runs modifiers in order and stops at the first failure.
// Nil entries are skipped.
func Chain(mods ...Modifier) Modifier {
	return ModifierFunc(func(ctx context.Context, d *Descriptor) error {
		for _, m := range mods {
			if m == nil {
				continue
			}
			if err := m.Modify(ctx, d); err != nil {
				return err
			}
		}
		return nil
	})
}

// ErrorResolver handles a failed call when the caller supplied no error closure.
type ErrorResolver interface {
	ResolveError(err error)
}

// Observer is notified once per call, after the outcome is known.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// LoggerProvider supplies the logger for per-call log lines.
type LoggerProvider interface {
	Logger() *logger.Logger
}

// StrictDecoder clients reject response bodies carrying fields the target
// type does not declare. See DecodeStrict.
type StrictDecoder interface {
	StrictDecoding() bool
}

// Named clients report their name in events and log lines.
type Named interface {
	Name() string
}

// Event describes one finished call.
type Event struct {
	Client string
	Method string
	Path   string
	// URL excludes the query string.
	URL        string
	StatusCode int
	Duration   time.Duration
	// Err is nil on success.
	Err error
}

// Outcome returns "ok" for successful calls and the error kind otherwise.
func (e Event) Outcome() string {
	if e.Err == nil {
		return "ok"
	}
	return KindOf(e.Err).String()
}
