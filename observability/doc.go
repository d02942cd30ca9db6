// Package observability sets up OpenTelemetry tracing and metrics for API
// clients.
//
// Tracing and metrics export over OTLP/HTTP:
//
//	shutdown, err := observability.Init(ctx, observability.Config{
//		ServiceName: "billing",
//		Endpoint:    "otel-collector:4318",
//		Tracing:     true,
//		Metrics:     true,
//	})
//	defer shutdown(ctx)
//
// Per-call client metrics are recorded by an apiclient.Observer:
//
//	metrics, err := observability.NewClientMetrics(observability.Meter("billing"))
//	client, err := apiclient.New(cfg, apiclient.WithObserver(metrics))
//
// Service health aggregates component health:
//
//	health := observability.CheckHealth(ctx, "billing", "1.4.0", registry)
package observability
