package observability

import (
	"context"
	"strconv"

	"github.com/kbukum/apiclient/httpclient"
)

// HealthStatus represents the health state of a component or service.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health describes the health of an individual component.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// ServiceHealth describes the overall health of a service and its components.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth creates a ServiceHealth with status up.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  HealthStatusUp,
		Version: version,
	}
}

// AddComponent adds a component health result and degrades overall status if needed.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)

	switch ch.Status {
	case HealthStatusDown:
		sh.Status = HealthStatusDown
	case HealthStatusDegraded:
		if sh.Status != HealthStatusDown {
			sh.Status = HealthStatusDegraded
		}
	}
}

// CheckTokenStore reports the token store down when the token cannot be
// read. Whether a token is present is reported, never its value.
func CheckTokenStore(ctx context.Context, store httpclient.TokenStore, key string) Health {
	h := Health{Name: "token_store", Status: HealthStatusUp}
	_, ok, err := store.Get(ctx, key)
	if err != nil {
		h.Status = HealthStatusDown
		h.Message = err.Error()
		return h
	}
	h.Details = map[string]string{"token_present": strconv.FormatBool(ok)}
	return h
}

// CheckConnectivity reports degraded while the client is offline.
func CheckConnectivity(ctx context.Context, checker httpclient.ConnectivityChecker) Health {
	if checker.Online(ctx) {
		return Health{Name: "connectivity", Status: HealthStatusUp}
	}
	return Health{Name: "connectivity", Status: HealthStatusDegraded, Message: "offline"}
}
