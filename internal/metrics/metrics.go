// Package metrics exposes Prometheus metrics for workflow runs and title inference.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonesrussell/north-cloud/cover-generator/internal/title"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/workflow"
)

// MetricsNamespace prefixes every metric.
const MetricsNamespace = "cover"

// Metrics holds the collectors. It implements workflow.Observer and
// title.Observer.
type Metrics struct {
	registry *prometheus.Registry

	WorkflowRuns    *prometheus.CounterVec
	PollAttempts    prometheus.Histogram
	TitleInferences *prometheus.CounterVec
}

var (
	_ workflow.Observer = (*Metrics)(nil)
	_ title.Observer    = (*Metrics)(nil)
)

// New creates the metrics on a private registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		WorkflowRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: "workflow",
				Name:      "runs_total",
				Help:      "Workflow runs by execution mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		PollAttempts: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: MetricsNamespace,
				Subsystem: "workflow",
				Name:      "poll_attempts",
				Help:      "Status queries issued per asynchronous run",
				Buckets:   []float64{1, 2, 3, 5, 10, 15, 20, 25, 30},
			},
		),
		TitleInferences: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: MetricsNamespace,
				Subsystem: "title",
				Name:      "inferences_total",
				Help:      "Successful title inferences by candidate source",
			},
			[]string{"source"},
		),
	}
}

func (m *Metrics) ObserveRun(mode workflow.Mode, outcome string) {
	m.WorkflowRuns.WithLabelValues(string(mode), outcome).Inc()
}

func (m *Metrics) ObservePollAttempts(attempts int) {
	m.PollAttempts.Observe(float64(attempts))
}

func (m *Metrics) ObserveTitle(source title.Source) {
	m.TitleInferences.WithLabelValues(string(source)).Inc()
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
