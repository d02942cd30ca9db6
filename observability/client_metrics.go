package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/apikit/apiclient"
)

// Metric names recorded by ClientMetrics.
const (
	MetricRequestTotal    = "apiclient.request.total"
	MetricRequestDuration = "apiclient.request.duration"
	MetricRequestErrors   = "apiclient.request.errors"
)

// ClientMetrics records one measurement set per API call.
type ClientMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestErrors   metric.Int64Counter
}

var _ apiclient.Observer = (*ClientMetrics)(nil)

// NewClientMetrics creates the instruments on meter.
func NewClientMetrics(meter metric.Meter) (*ClientMetrics, error) {
	requestTotal, err := meter.Int64Counter(MetricRequestTotal,
		metric.WithDescription("Total number of API requests"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create %s: %w", MetricRequestTotal, err)
	}

	requestDuration, err := meter.Float64Histogram(MetricRequestDuration,
		metric.WithDescription("Duration of API requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create %s: %w", MetricRequestDuration, err)
	}

	requestErrors, err := meter.Int64Counter(MetricRequestErrors,
		metric.WithDescription("Failed API requests by error kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("observability: create %s: %w", MetricRequestErrors, err)
	}

	return &ClientMetrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestErrors:   requestErrors,
	}, nil
}

// Observe implements apiclient.Observer.
func (m *ClientMetrics) Observe(ctx context.Context, ev apiclient.Event) {
	base := []attribute.KeyValue{
		attribute.String("client", ev.Client),
		attribute.String("method", ev.Method),
	}

	m.requestTotal.Add(ctx, 1, metric.WithAttributes(append(base,
		attribute.String("outcome", ev.Outcome()),
		attribute.Int("status", ev.StatusCode),
	)...))
	m.requestDuration.Record(ctx, ev.Duration.Seconds(), metric.WithAttributes(base...))

	if ev.Err != nil {
		m.requestErrors.Add(ctx, 1, metric.WithAttributes(append(base,
			attribute.String("kind", ev.Outcome()),
		)...))
	}
}
