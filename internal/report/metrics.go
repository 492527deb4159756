package report

// Timing is observability. A metrics failure never reaches the timed call.

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nikkolasg/timed/pkg/timed"
)

// Metrics are reporter self-metrics: boring counters only.
// No durations, no histograms, no percentiles. They count what the
// reporter did, never how long the instrumented code took.
type Metrics struct {
	ReportsTotal        *prometheus.CounterVec // sink=log|csv
	ReportErrorsTotal   *prometheus.CounterVec // sink=csv
	OutputChangesTotal  *prometheus.CounterVec // output=off|log|csv
	OutputFailuresTotal *prometheus.CounterVec // output=csv
}

// NewMetrics creates an unregistered set of counters.
func NewMetrics() *Metrics {
	return &Metrics{
		ReportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timed",
			Name:      "reports_total",
			Help:      "Timing samples dispatched to a sink, by sink.",
		}, []string{"sink"}),
		ReportErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timed",
			Name:      "report_errors_total",
			Help:      "Timing samples a sink failed to write, by sink.",
		}, []string{"sink"}),
		OutputChangesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timed",
			Name:      "output_changes_total",
			Help:      "Successful output activations, by output kind.",
		}, []string{"output"}),
		OutputFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "timed",
			Name:      "output_failures_total",
			Help:      "Output activations that failed and fell back to off, by output kind.",
		}, []string{"output"}),
	}
}

var globalMetrics = NewMetrics()

// Global returns the process-wide metrics instance.
func Global() *Metrics {
	return globalMetrics
}

// Register adds all counters to reg. Counters already registered with
// reg are tolerated so Register can be called more than once.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.ReportsTotal,
		m.ReportErrorsTotal,
		m.OutputChangesTotal,
		m.OutputFailuresTotal,
	}
}

// ReportDispatched implements timed.Observer.
func (m *Metrics) ReportDispatched(kind timed.OutputKind, err error) {
	sink := kind.String()
	m.ReportsTotal.WithLabelValues(sink).Inc()
	if err != nil {
		m.ReportErrorsTotal.WithLabelValues(sink).Inc()
	}
}

// OutputChanged implements timed.Observer.
func (m *Metrics) OutputChanged(o timed.Output, err error) {
	kind := o.Kind().String()
	if err != nil {
		m.OutputFailuresTotal.WithLabelValues(kind).Inc()
		return
	}
	m.OutputChangesTotal.WithLabelValues(kind).Inc()
}
