package observability

import (
	"fmt"
	"time"

	"github.com/kbukum/apikit/validation"
)

// Config configures tracing and metrics export.
type Config struct {
	ServiceName    string `yaml:"service_name" mapstructure:"service_name" validate:"required"`
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	Environment    string `yaml:"environment" mapstructure:"environment"`

	// Endpoint is the OTLP HTTP endpoint host:port (e.g. "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required"`
	Insecure bool   `yaml:"insecure" mapstructure:"insecure"`

	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
	// SampleRate is the trace sampling ratio between 0 and 1.
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`

	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
	// MetricInterval is the metric export interval.
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval" validate:"gte=0"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.0.0"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Endpoint == "" {
		c.Endpoint = "localhost:4318"
	}
	if c.MetricInterval == 0 {
		c.MetricInterval = 15 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}

// TracerConfig returns the tracing part of the configuration.
func (c *Config) TracerConfig() TracerConfig {
	return TracerConfig{
		ServiceName:    c.ServiceName,
		ServiceVersion: c.ServiceVersion,
		Environment:    c.Environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		SampleRate:     c.SampleRate,
	}
}

// MeterConfig returns the metrics part of the configuration.
func (c *Config) MeterConfig() MeterConfig {
	return MeterConfig{
		ServiceName:    c.ServiceName,
		ServiceVersion: c.ServiceVersion,
		Environment:    c.Environment,
		Endpoint:       c.Endpoint,
		Insecure:       c.Insecure,
		Interval:       c.MetricInterval,
	}
}
