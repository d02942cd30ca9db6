package httpclient

import (
	"context"
	"fmt"

	"github.com/kbukum/apikit/component"
	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/resilience"
)

// Component wraps an Adapter with lifecycle management.
type Component struct {
	adapter *Adapter
	config  Config
	opts    []Option
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a new HTTP transport component.
// The adapter is created lazily in Start().
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.Name == "" {
		return "http"
	}
	return c.config.Name
}

// Start builds the adapter.
func (c *Component) Start(_ context.Context) error {
	a, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.adapter = a
	logger.Get("httpclient").Info("transport started", logger.Fields(
		logger.FieldClient, a.Name(),
		"timeout", a.config.Timeout.String(),
		"http2", a.config.EnableHTTP2,
	))
	return nil
}

// Stop closes idle connections.
func (c *Component) Stop(ctx context.Context) error {
	if c.adapter == nil {
		return nil
	}
	logger.Get("httpclient").Info("transport stopped", logger.Fields(logger.FieldClient, c.Name()))
	return c.adapter.Close(ctx)
}

// Health reports unhealthy before Start and while the circuit is open.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.adapter == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case !c.adapter.IsAvailable(ctx):
		h.Status = component.StatusUnhealthy
		h.Message = "circuit " + c.adapter.CircuitState().String()
	case c.adapter.CircuitState() == resilience.StateHalfOpen:
		h.Status = component.StatusDegraded
		h.Message = "circuit half-open"
	}
	return h
}

// Describe returns a one-line summary of the transport.
func (c *Component) Describe() component.Description {
	cfg := c.config
	cfg.ApplyDefaults()
	details := fmt.Sprintf("timeout=%s", cfg.Timeout)
	if cfg.EnableHTTP2 {
		details += " h2"
	}
	if cfg.CircuitBreaker != nil {
		details += " breaker"
	}
	if cfg.RateLimiter != nil {
		details += fmt.Sprintf(" rate=%.0f/s", cfg.RateLimiter.Rate)
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "http-transport",
		Details: details,
	}
}

// Adapter returns the underlying HTTP adapter. Must be called after Start().
func (c *Component) Adapter() *Adapter {
	return c.adapter
}
