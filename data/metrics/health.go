package metrics

import (
	"context"
	"sort"
	"time"
)

// HealthMonitor monitors data layer component health
type HealthMonitor struct {
	collector  Collector
	components map[string]HealthChecker
	timeout    time.Duration
}

// HealthChecker interface for health checking
type HealthChecker interface {
	Check(ctx context.Context) error
	Name() string
}

type checkerFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (c checkerFunc) Check(ctx context.Context) error { return c.fn(ctx) }
func (c checkerFunc) Name() string                    { return c.name }

// CheckerFunc adapts a ping function to HealthChecker.
func CheckerFunc(name string, fn func(ctx context.Context) error) HealthChecker {
	return checkerFunc{name: name, fn: fn}
}

// NewHealthMonitor creates a new health monitor
func NewHealthMonitor(collector Collector) *HealthMonitor {
	if collector == nil {
		collector = NoOpCollector{}
	}
	return &HealthMonitor{
		collector:  collector,
		components: make(map[string]HealthChecker),
		timeout:    3 * time.Second,
	}
}

// RegisterComponent registers a component for health monitoring. It is not
// safe to call once checks are running.
func (h *HealthMonitor) RegisterComponent(checker HealthChecker) {
	h.components[checker.Name()] = checker
}

// Components returns the registered component names in order.
func (h *HealthMonitor) Components() []string {
	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckAll performs health check on all registered components. The result
// maps each component to its error, nil when healthy.
func (h *HealthMonitor) CheckAll(ctx context.Context) map[string]error {
	results := make(map[string]error, len(h.components))
	for name, checker := range h.components {
		results[name] = h.checkComponent(ctx, checker)
	}
	return results
}

// CheckComponent checks a specific component
func (h *HealthMonitor) CheckComponent(ctx context.Context, name string) bool {
	if checker, exists := h.components[name]; exists {
		return h.checkComponent(ctx, checker) == nil
	}
	return false
}

func (h *HealthMonitor) checkComponent(ctx context.Context, checker HealthChecker) error {
	checkCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	err := checker.Check(checkCtx)
	h.collector.HealthCheck(checker.Name(), err == nil)
	return err
}
