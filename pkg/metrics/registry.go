// Package metrics provides Prometheus metrics collection for filesystem
// backends.
//
// Metrics are optional: if the global registry is never initialized, the
// constructors return no-op implementations with zero overhead, so
// filesystems can always be wrapped unconditionally.
//
// Usage:
//
//	// Initialize the global registry (typically in main.go)
//	metrics.InitRegistry()
//
//	// Wrap a filesystem with instrumentation
//	fs := metricsfs.New(inner, "memory")
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// registry is the global Prometheus registry, write-once via registryOnce.
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global Prometheus registry. Safe to call
// multiple times; subsequent calls are ignored.
//
// If never called, GetRegistry returns nil and all metrics constructors
// return no-op implementations.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global Prometheus registry, or nil if metrics are
// disabled.
func GetRegistry() *prometheus.Registry {
	return registry
}

// IsEnabled reports whether metrics collection is enabled.
func IsEnabled() bool {
	return GetRegistry() != nil
}
