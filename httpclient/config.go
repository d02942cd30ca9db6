package httpclient

import (
	"fmt"
	"time"

	"github.com/kbukum/apikit/resilience"
	"github.com/kbukum/apikit/security"
	"github.com/kbukum/apikit/validation"
)

const (
	defaultTimeout         = 30 * time.Second
	defaultMaxIdleConns    = 100
	defaultIdleConnTimeout = 90 * time.Second
)

// Config configures the HTTP transport.
type Config struct {
	// Name identifies the transport in logs, spans and breaker state.
	Name string `yaml:"name" mapstructure:"name"`

	// Timeout bounds a whole exchange including reading the body. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`

	// MaxIdleConns caps idle keep-alive connections across all hosts.
	MaxIdleConns int `yaml:"max_idle_conns" mapstructure:"max_idle_conns" validate:"gte=0"`

	// IdleConnTimeout closes idle connections after this long.
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout" mapstructure:"idle_conn_timeout" validate:"gte=0"`

	// EnableHTTP2 negotiates HTTP/2 over TLS even when a custom TLS config is set.
	EnableHTTP2 bool `yaml:"enable_http2" mapstructure:"enable_http2"`

	// TLS configures the client side of TLS connections.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// CircuitBreaker configures the circuit breaker. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"circuit_breaker" mapstructure:"circuit_breaker"`

	// RateLimiter configures client-side pacing. Nil disables it.
	RateLimiter *resilience.RateLimiterConfig `yaml:"rate_limiter" mapstructure:"rate_limiter"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults. Negative
// values are left for Validate to reject.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "http"
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = defaultMaxIdleConns
	}
	if c.IdleConnTimeout == 0 {
		c.IdleConnTimeout = defaultIdleConnTimeout
	}
	// Breaker and limiter configs are copied so defaults never leak into the caller's values.
	if c.CircuitBreaker != nil {
		cb := *c.CircuitBreaker
		c.CircuitBreaker = &cb
		if c.CircuitBreaker.Name == "" {
			c.CircuitBreaker.Name = c.Name
		}
		c.CircuitBreaker.ApplyDefaults()
	}
	if c.RateLimiter != nil {
		rl := *c.RateLimiter
		c.RateLimiter = &rl
		if c.RateLimiter.Name == "" {
			c.RateLimiter.Name = c.Name
		}
		c.RateLimiter.ApplyDefaults()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("httpclient: %w", err)
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return fmt.Errorf("httpclient: %w", err)
		}
	}
	return nil
}
