package data

import (
	"context"
	"time"
)

// Health checks all components. Status is "healthy" when every component
// answers and "degraded" otherwise.
func (d *Data) Health(ctx context.Context) map[string]any {
	services := make(map[string]any)
	overallHealthy := true

	for name, err := range d.health.CheckAll(ctx) {
		svc := map[string]any{"status": "healthy"}
		if err != nil {
			overallHealthy = false
			svc["status"] = "unhealthy"
			svc["error"] = err.Error()
		}
		services[name] = svc
	}

	health := map[string]any{
		"timestamp": time.Now(),
		"services":  services,
		"status":    "healthy",
	}
	if !overallHealthy {
		health["status"] = "degraded"
	}
	return health
}

// Healthy reports whether every component answers.
func (d *Data) Healthy(ctx context.Context) bool {
	for _, err := range d.health.CheckAll(ctx) {
		if err != nil {
			return false
		}
	}
	return true
}
