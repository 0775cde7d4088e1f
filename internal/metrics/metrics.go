// Package metrics exposes pipeline counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agentstation/amjd/pkg/errors"
	"github.com/agentstation/amjd/pkg/reconciler"
	"github.com/agentstation/amjd/pkg/sources"
	"github.com/agentstation/amjd/pkg/status"
)

const namespace = "amjd"

// Metrics holds a private registry so tests and servers never share
// process-global state.
type Metrics struct {
	registry *prometheus.Registry

	sourceRows    *prometheus.CounterVec
	sourceSkipped *prometheus.CounterVec
	sourceErrored *prometheus.CounterVec
	sourceMissing *prometheus.CounterVec
	records       prometheus.Gauge
	runDuration   prometheus.Histogram
	validation    *prometheus.CounterVec
	requests      *prometheus.CounterVec
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}
	m.sourceRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_rows_total",
		Help:      "Rows read from each reconciliation source",
	}, []string{"source"})
	m.sourceSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_rows_skipped_total",
		Help:      "Rows skipped because they carried no key",
	}, []string{"source"})
	m.sourceErrored = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_rows_errored_total",
		Help:      "Rows carrying a recorded error",
	}, []string{"source"})
	m.sourceMissing = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "source_missing_total",
		Help:      "Passes skipped because the source file was absent",
	}, []string{"source"})
	m.records = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "index_records",
		Help:      "Records in the most recent event index",
	})
	m.runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "run_duration_seconds",
		Help:      "Wall time of reconciliation runs",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})
	m.validation = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_status_total",
		Help:      "Validation outcomes by check and status",
	}, []string{"check", "status"})
	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "API requests by route and status code",
	}, []string{"route", "code"})

	m.registry.MustRegister(
		m.sourceRows, m.sourceSkipped, m.sourceErrored, m.sourceMissing,
		m.records, m.runDuration, m.validation, m.requests,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// WriteFile writes the current values in the text exposition format, for
// batch runs scraped through node_exporter's textfile collector.
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// SourceProcessed implements reconciler.Observer.
func (m *Metrics) SourceProcessed(id sources.ID, stats reconciler.SourceStats) {
	m.sourceRows.WithLabelValues(string(id)).Add(float64(stats.Rows))
	m.sourceSkipped.WithLabelValues(string(id)).Add(float64(stats.Skipped))
	m.sourceErrored.WithLabelValues(string(id)).Add(float64(stats.Errored))
}

// SourceMissing implements reconciler.Observer.
func (m *Metrics) SourceMissing(id sources.ID) {
	m.sourceMissing.WithLabelValues(string(id)).Inc()
}

// RunFinished implements reconciler.Observer.
func (m *Metrics) RunFinished(records int, d time.Duration) {
	m.records.Set(float64(records))
	m.runDuration.Observe(d.Seconds())
}

// Validation adds a check's status tally, e.g. check "jd" or "am".
func (m *Metrics) Validation(check string, counts status.Counts) {
	for s, n := range counts {
		m.validation.WithLabelValues(check, string(s)).Add(float64(n))
	}
}

// Request counts one API response.
func (m *Metrics) Request(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

var _ reconciler.Observer = (*Metrics)(nil)
