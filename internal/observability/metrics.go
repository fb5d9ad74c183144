package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the counters and gauges for one translator run. The
// translator is a batch command, so metrics go to a private registry that is
// written out as a node_exporter textfile instead of being scraped.
type Metrics struct {
	registry *prometheus.Registry

	Runs              *prometheus.CounterVec // labels: format={stub,json,yaml}, outcome={success,error}
	RunDuration       prometheus.Histogram
	Components        *prometheus.GaugeVec // labels: kind
	ArgumentsWritten  prometheus.Gauge
	Notices           *prometheus.CounterVec // labels: code
	LastSuccessSecond prometheus.Gauge
}

// NewMetrics creates and registers the run metrics with a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "h2k_hpxml",
			Name:      "runs_total",
			Help:      "Translator runs by output format and outcome.",
		}, []string{"format", "outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "h2k_hpxml",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a translator run.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		Components: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "h2k_hpxml",
			Name:      "components",
			Help:      "Records extracted from the house file, by component kind.",
		}, []string{"kind"}),
		ArgumentsWritten: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "h2k_hpxml",
			Name:      "arguments_written",
			Help:      "Building arguments written into the workflow.",
		}),
		Notices: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "h2k_hpxml",
			Name:      "notices_total",
			Help:      "Non-fatal mapping notices by code.",
		}, []string{"code"}),
		LastSuccessSecond: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "h2k_hpxml",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}

	m.registry.MustRegister(
		m.Runs,
		m.RunDuration,
		m.Components,
		m.ArgumentsWritten,
		m.Notices,
		m.LastSuccessSecond,
	)
	return m
}

// WriteTextfile writes every metric to path in the Prometheus text format.
// The file is replaced atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
