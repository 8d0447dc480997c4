// Package metrics provides Prometheus metrics for simulation runs.
//
// Metrics are optional: when InitRegistry has not been called the constructors
// return no-op implementations.
package metrics

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	registry     *prometheus.Registry
	registryOnce sync.Once
)

// InitRegistry initializes the global registry. Later calls are ignored.
func InitRegistry() {
	registryOnce.Do(func() {
		registry = prometheus.NewRegistry()
	})
}

// GetRegistry returns the global registry, nil when metrics are disabled.
func GetRegistry() *prometheus.Registry {
	return registry
}

func IsEnabled() bool {
	return GetRegistry() != nil
}

// WriteTextfile writes every metric of the global registry to path in the
// textfile collector format. It does nothing when metrics are disabled.
func WriteTextfile(path string) error {
	if !IsEnabled() {
		return nil
	}
	return errors.Wrapf(prometheus.WriteToTextfile(path, GetRegistry()), "write metrics to %s", path)
}
