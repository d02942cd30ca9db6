package observability

import (
	"context"
	"errors"
)

// ShutdownFunc flushes and stops the providers started by Init.
type ShutdownFunc func(ctx context.Context) error

// Init starts the providers enabled in cfg and installs them globally.
// The returned function is never nil.
func Init(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return noopShutdown, err
	}

	var shutdowns []ShutdownFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if cfg.Tracing {
		tp, err := InitTracer(ctx, cfg.TracerConfig())
		if err != nil {
			return noopShutdown, err
		}
		shutdowns = append(shutdowns, tp.Shutdown)
	}
	if cfg.Metrics {
		mp, err := InitMeter(ctx, cfg.MeterConfig())
		if err != nil {
			_ = shutdown(ctx)
			return noopShutdown, err
		}
		shutdowns = append(shutdowns, mp.Shutdown)
	}
	return shutdown, nil
}

func noopShutdown(context.Context) error { return nil }
