package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_logbook"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the Prometheus collectors for the records service and the tracker.
type Metrics struct {
	// labels: operation={create,list,update,delete}, outcome={success,error}
	RecordOperations *prometheus.CounterVec

	// labels: outcome={success,error}
	TrackerLookups   *prometheus.CounterVec
	TrackedLocations prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordOperations,
		m.TrackerLookups,
		m.TrackedLocations,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as many
// services as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_operations_total",
			Help:      "Record store operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		TrackerLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracker_lookups_total",
			Help:      "Scheduled forecast lookups by outcome.",
		}, []string{"outcome"}),
		TrackedLocations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracked_locations",
			Help:      "Number of locations the tracker logs on a schedule.",
		}),
	}
}

// Outcome maps an error to its outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
