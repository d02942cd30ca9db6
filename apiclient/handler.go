package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/params"
)

const contentTypeJSON = "application/json"

var errNoTransport = errors.New("client has no transport")

// Call describes one request for Do.
type Call struct {
	Method string
	Path   string
	// Params are merged over the client's default parameters.
	Params params.Set
	// Body is sent as-is. A non-nil body defaults Content-Type to application/json.
	Body []byte
}

// GetResult performs a GET with p merged over the client's default
// parameters and decodes the response into T or E.
func GetResult[T, E any](ctx context.Context, c Identity, path string, p params.Set) (T, error) {
	return Do[T, E](ctx, c, Call{Method: http.MethodGet, Path: path, Params: p})
}

// PostResult performs a POST with a pre-serialized JSON body. Only the
// client's default parameters go into the query string.
func PostResult[T, E any](ctx context.Context, c Identity, path string, body []byte) (T, error) {
	if body == nil {
		body = []byte{}
	}
	return Do[T, E](ctx, c, Call{Method: http.MethodPost, Path: path, Body: body})
}

// PostJSONResult marshals v and posts it. A marshal failure is a KindBuild error.
func PostJSONResult[T, E any](ctx context.Context, c Identity, path string, v any) (T, error) {
	body, err := json.Marshal(v)
	if err != nil {
		var zero T
		return zero, &RequestError[E]{Kind: KindBuild, Err: err}
	}
	return PostResult[T, E](ctx, c, path, body)
}

// Get performs GetResult and routes the result through the closures.
// See Resolve for how nil closures behave.
func Get[T, E any](ctx context.Context, c Identity, path string, p params.Set, onSuccess func(T) T, onError func(error)) (T, bool) {
	value, err := GetResult[T, E](ctx, c, path, p)
	return Resolve(value, err, onSuccess, errorHandler(ctx, c, onError))
}

// Post performs PostResult and routes the result through the closures.
func Post[T, E any](ctx context.Context, c Identity, path string, body []byte, onSuccess func(T) T, onError func(error)) (T, bool) {
	value, err := PostResult[T, E](ctx, c, path, body)
	return Resolve(value, err, onSuccess, errorHandler(ctx, c, onError))
}

// Resolve collapses a result. On success onSuccess is applied once (nil
// means identity) and the value is returned with true. On failure onError
// is called once, if non-nil, and the zero T is returned with false.
func Resolve[T any](value T, err error, onSuccess func(T) T, onError func(error)) (T, bool) {
	if err != nil {
		if onError != nil {
			onError(err)
		}
		var zero T
		return zero, false
	}
	if onSuccess != nil {
		value = onSuccess(value)
	}
	return value, true
}

// errorHandler picks the error closure: the caller's, else the client's
// ErrorResolver, else a warning log line.
func errorHandler(ctx context.Context, c Identity, onError func(error)) func(error) {
	if onError != nil {
		return onError
	}
	if r, ok := c.(ErrorResolver); ok {
		return r.ResolveError
	}
	return func(err error) {
		clientLogger(ctx, c).Warn("api request failed", logger.Fields(
			logger.FieldErrorKind, KindOf(err).String(),
			logger.FieldError, err.Error(),
		))
	}
}

// Do runs the full pipeline for any method.
func Do[T, E any](ctx context.Context, c Identity, call Call) (T, error) {
	start := time.Now()
	ev := Event{Method: call.Method, Path: call.Path}
	if n, ok := c.(Named); ok {
		ev.Client = n.Name()
	}

	value, err := run[T, E](ctx, c, call, &ev)

	ev.Duration = time.Since(start)
	ev.Err = err
	report(ctx, c, ev)
	return value, err
}

func run[T, E any](ctx context.Context, c Identity, call Call, ev *Event) (T, error) {
	var zero T
	buildErr := func(err error) (T, error) {
		return zero, &RequestError[E]{Kind: KindBuild, Err: err}
	}

	d, err := build(c, call.Method, call.Path)
	if err != nil {
		return buildErr(err)
	}
	ev.URL = d.URL

	applyDefaults(c, d, call)

	if m, ok := c.(Modifier); ok {
		if err := m.Modify(ctx, d); err != nil {
			return buildErr(err)
		}
	}

	req, err := d.Request()
	if err != nil {
		return buildErr(err)
	}
	transport := c.Transport()
	if transport == nil {
		return buildErr(errNoTransport)
	}

	resp, err := transport.Send(ctx, req)
	if err != nil {
		return zero, &RequestError[E]{Kind: KindTransport, Err: err}
	}
	ev.StatusCode = resp.StatusCode

	if s, ok := c.(StrictDecoder); ok && s.StrictDecoding() {
		return DecodeStrict[T, E](Interpret(resp))
	}
	return Decode[T, E](Interpret(resp))
}

func build(c Identity, method, path string) (*Descriptor, error) {
	if b, ok := c.(Builder); ok {
		d, err := b.Build(method, path)
		if err != nil {
			return nil, err
		}
		if d == nil {
			return nil, errors.New("builder returned nil descriptor")
		}
		return d, nil
	}
	return BuildDescriptor(c, method, path)
}

// applyDefaults layers parameters as defaults, then whatever the builder
// set, then the call's own parameters. The client's maps are never written.
func applyDefaults(c Identity, d *Descriptor, call Call) {
	var defaults params.Set
	if def, ok := c.(Defaults); ok {
		defaults = def.DefaultParams()
	}
	d.Params = params.Merge(params.Merge(defaults, d.Params), call.Params)

	if call.Body != nil {
		d.Body = call.Body
		if !d.HasHeader("Content-Type") {
			d.SetHeader("Content-Type", contentTypeJSON)
		}
	}
}

func report(ctx context.Context, c Identity, ev Event) {
	if o, ok := c.(Observer); ok {
		o.Observe(ctx, ev)
	}

	log := clientLogger(ctx, c)
	if !log.Enabled(zerolog.DebugLevel) {
		return
	}
	fields := logger.Fields(
		logger.FieldMethod, ev.Method,
		logger.FieldURL, ev.URL,
		logger.FieldStatus, ev.StatusCode,
		logger.FieldDuration, ev.Duration.Milliseconds(),
	)
	if ev.Err != nil {
		fields[logger.FieldErrorKind] = KindOf(ev.Err).String()
		fields[logger.FieldError] = ev.Err.Error()
	}
	log.Debug("api request", fields)
}

func clientLogger(ctx context.Context, c Identity) *logger.Logger {
	var log *logger.Logger
	if lp, ok := c.(LoggerProvider); ok {
		log = lp.Logger()
	}
	if log == nil {
		log = logger.Get("apiclient")
	}
	if n, ok := c.(Named); ok && n.Name() != "" {
		log = log.WithFields(logger.Fields(logger.FieldClient, n.Name()))
	}
	return log.WithContext(ctx)
}
