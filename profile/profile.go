// Package profile implements an optional profiling sink for the
// scheduler, backed by github.com/prometheus/client_golang the way
// aistore's internal stats registry exposes per-operation counters and
// histograms. It is one concrete implementation of the sched.Profiler
// interface; wiring it in is optional (see config.ProfileLevel).
package profile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sink records per-task-invocation duration and outcome as Prometheus
// metrics. It implements sched.Profiler without importing the sched
// package, so sched and profile never depend on each other directly.
type Sink struct {
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	invokes  *prometheus.CounterVec
}

// NewSink registers a new set of metrics under the given namespace. Use a
// distinct namespace per Engine instance if more than one runs in the
// same process, or registration will panic on the duplicate collector.
func NewSink(namespace string, registerer prometheus.Registerer) *Sink {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)
	return &Sink{
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "task_duration_seconds",
			Help:      "Wall-clock time spent in a single task Process/Collect/Reduce call.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"node"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_failures_total",
			Help:      "Number of task invocations that returned a non-EOS error.",
		}, []string{"node"}),
		invokes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_invocations_total",
			Help:      "Number of task invocations, successful or not.",
		}, []string{"node"}),
	}
}

// Observe implements sched.Profiler.
func (s *Sink) Observe(nodeName string, d time.Duration, err error) {
	s.duration.WithLabelValues(nodeName).Observe(d.Seconds())
	s.invokes.WithLabelValues(nodeName).Inc()
	if err != nil {
		s.failures.WithLabelValues(nodeName).Inc()
	}
}
