// FILE: svckit/src/internal/logs/metrics.go
package logs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline counters.
type Metrics struct {
	Events       *prometheus.CounterVec
	Filtered     *prometheus.CounterVec
	SinkFailures *prometheus.CounterVec
}

// NewMetrics registers the pipeline counters with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "svckit_log_events_total",
			Help: "The total number of log records emitted after level filtering",
		}, []string{"logger", "level"}),

		Filtered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "svckit_log_filtered_total",
			Help: "Total number of records dropped by configured filters",
		}, []string{"logger"}),

		SinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "svckit_log_sink_failures_total",
			Help: "Total number of records a sink failed to write",
		}, []string{"sink"}),
	}
}

var defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)

// DefaultMetrics returns the counters registered with the default prometheus registry.
func DefaultMetrics() *Metrics {
	return defaultMetrics
}
