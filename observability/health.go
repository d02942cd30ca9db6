package observability

import (
	"context"

	"github.com/kbukum/apikit/component"
)

// ServiceHealth is the overall health of a service and its components.
type ServiceHealth struct {
	Service    string                 `json:"service"`
	Status     component.HealthStatus `json:"status"`
	Version    string                 `json:"version,omitempty"`
	Components []component.Health     `json:"components,omitempty"`
}

// NewServiceHealth creates a healthy ServiceHealth.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  component.StatusHealthy,
		Version: version,
	}
}

// AddComponent records a component result. Unhealthy wins over degraded.
func (sh *ServiceHealth) AddComponent(h component.Health) {
	sh.Components = append(sh.Components, h)

	switch h.Status {
	case component.StatusUnhealthy:
		sh.Status = component.StatusUnhealthy
	case component.StatusDegraded:
		if sh.Status != component.StatusUnhealthy {
			sh.Status = component.StatusDegraded
		}
	}
}

// CheckHealth collects the health of every registered component.
func CheckHealth(ctx context.Context, service, version string, reg *component.Registry) *ServiceHealth {
	sh := NewServiceHealth(service, version)
	for _, h := range reg.HealthAll(ctx) {
		sh.AddComponent(h)
	}
	return sh
}
