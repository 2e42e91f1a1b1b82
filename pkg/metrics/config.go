package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace overrides the default "coopsync" namespace for metrics.
	Namespace string

	// Labels are additional constant labels added to all metrics.
	Labels prometheus.Labels
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: DefaultNamespace,
		Labels:    nil,
	}
}

// FromConfig returns the Sink described by config: a Prometheus-backed
// Registry when enabled, Noop otherwise.
func FromConfig(config Config) Sink {
	if !config.Enabled {
		return Noop{}
	}
	return NewRegistryWithConfig(config)
}

// OrNoop returns s, or Noop when s is nil. Components call it on their
// configured sink so a zero Config is usable.
func OrNoop(s Sink) Sink {
	if s == nil {
		return Noop{}
	}
	return s
}
