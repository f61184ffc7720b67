// Package metrics exposes Prometheus collectors for the asset store and the
// content planner.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricConnectAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "growthhub",
		Subsystem: "store",
		Name:      "connect_attempts_total",
		Help:      "Number of attempts to open the durable storage backend.",
	})
	metricFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "growthhub",
		Subsystem: "store",
		Name:      "fallbacks_total",
		Help:      "Number of switches from durable to volatile storage, by trigger.",
	}, []string{"reason"})
	metricUnplacedDrafts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "growthhub",
		Subsystem: "planner",
		Name:      "unplaced_drafts_total",
		Help:      "Drafts that could not be assigned a date within the scheduling horizon.",
	})
)

// RecordConnectAttempt counts one durable backend open attempt.
func RecordConnectAttempt() {
	metricConnectAttempts.Inc()
}

// RecordFallback counts a durable to volatile transition.
func RecordFallback(reason string) {
	metricFallbacks.WithLabelValues(reason).Inc()
}

// RecordUnplaced counts drafts left without a slot.
func RecordUnplaced(count int) {
	if count > 0 {
		metricUnplacedDrafts.Add(float64(count))
	}
}
