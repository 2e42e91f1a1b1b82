// Package metrics provides observability for coopsync components.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace is the metric namespace used when Config.Namespace is empty.
const DefaultNamespace = "coopsync"

// Registry holds all metric instances for coopsync components and
// implements Sink on top of them.
type Registry struct {
	// Semaphore Metrics
	SemaphoreAcquired *prometheus.CounterVec
	SemaphoreSignals  *prometheus.CounterVec
	SemaphoreWaiting  *prometheus.GaugeVec

	// Group Metrics
	GroupEntrants *prometheus.GaugeVec
	GroupWakes    *prometheus.CounterVec
	GroupReleased *prometheus.CounterVec

	// Combiner Metrics
	CombinerOutcomes *prometheus.CounterVec

	// For-each Metrics
	TasksCompleted        *prometheus.CounterVec
	TaskExecutionDuration *prometheus.HistogramVec
}

var _ Sink = (*Registry)(nil)

// NewRegistry creates a new metrics registry with the given Prometheus
// registerer and the default namespace.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{Registry: reg})
}

// NewRegistryWithConfig creates a metrics registry from config. Enabled is
// not consulted; use FromConfig for that.
func NewRegistryWithConfig(config Config) *Registry {
	reg := config.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := config.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	factory := promauto.With(reg)
	labels := config.Labels

	return &Registry{
		SemaphoreAcquired: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "semaphore",
				Name:        "acquired_total",
				Help:        "Total number of permits acquired, by admission path",
				ConstLabels: labels,
			},
			[]string{"semaphore_name", "path"},
		),

		SemaphoreSignals: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "semaphore",
				Name:        "signals_total",
				Help:        "Total number of permits released, by whether they were handed to a waiter",
				ConstLabels: labels,
			},
			[]string{"semaphore_name", "handoff"},
		),

		SemaphoreWaiting: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "semaphore",
				Name:        "waiting",
				Help:        "Number of callers suspended waiting for a permit",
				ConstLabels: labels,
			},
			[]string{"semaphore_name"},
		),

		GroupEntrants: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "group",
				Name:        "entrants",
				Help:        "Number of tasks between Enter and Leave",
				ConstLabels: labels,
			},
			[]string{"group_name"},
		),

		GroupWakes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "group",
				Name:        "wakes_total",
				Help:        "Total number of transitions of the entrant count to zero",
				ConstLabels: labels,
			},
			[]string{"group_name"},
		),

		GroupReleased: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "group",
				Name:        "released_total",
				Help:        "Total number of group waiters resumed",
				ConstLabels: labels,
			},
			[]string{"group_name"},
		),

		CombinerOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "combiner",
				Name:        "outcomes_total",
				Help:        "Total number of outcomes written, by result",
				ConstLabels: labels,
			},
			[]string{"combiner_name", "outcome"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "foreach",
				Name:        "tasks_completed_total",
				Help:        "Total number of for-each bodies that returned",
				ConstLabels: labels,
			},
			[]string{"batch_name"},
		),

		TaskExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "foreach",
				Name:        "task_duration_seconds",
				Help:        "Time spent executing for-each bodies",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"batch_name"},
		),
	}
}

func (r *Registry) PermitAcquired(name string, queued bool) {
	path := "fast"
	if queued {
		path = "queued"
		r.SemaphoreWaiting.WithLabelValues(name).Dec()
	}
	r.SemaphoreAcquired.WithLabelValues(name, path).Inc()
}

func (r *Registry) PermitReleased(name string, handedOff bool) {
	handoff := "false"
	if handedOff {
		handoff = "true"
	}
	r.SemaphoreSignals.WithLabelValues(name, handoff).Inc()
}

func (r *Registry) PermitQueued(name string) {
	r.SemaphoreWaiting.WithLabelValues(name).Inc()
}

func (r *Registry) EntrantsChanged(name string, entrants int) {
	r.GroupEntrants.WithLabelValues(name).Set(float64(entrants))
}

func (r *Registry) WaitersReleased(name string, n int) {
	r.GroupWakes.WithLabelValues(name).Inc()
	r.GroupReleased.WithLabelValues(name).Add(float64(n))
}

func (r *Registry) OutcomeWritten(name string, failed bool) {
	outcome := "success"
	if failed {
		outcome = "failure"
	}
	r.CombinerOutcomes.WithLabelValues(name, outcome).Inc()
}

func (r *Registry) TaskFinished(name string, d time.Duration) {
	r.TasksCompleted.WithLabelValues(name).Inc()
	r.TaskExecutionDuration.WithLabelValues(name).Observe(d.Seconds())
}
