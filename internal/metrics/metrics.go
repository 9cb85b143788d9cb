// Package metrics exposes scoring and dataset counters to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"musescore/internal/scoring"
)

// Namespace prefixes every metric name.
const Namespace = "muse"

// Score outcomes used as the "outcome" label.
const (
	OutcomeOK           = "ok"
	OutcomeNotFound     = "not_found"
	OutcomeInvalidInput = "invalid_input"
	OutcomeInvalidData  = "invalid_data"
	OutcomeError        = "error"
)

// Metrics holds the collectors registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	scores         *prometheus.CounterVec
	batchDuration  prometheus.Histogram
	batchExcluded  prometheus.Counter
	datasetRecords prometheus.Gauge
	requests       *prometheus.CounterVec
}

// New registers the muse collectors, plus the Go and process collectors,
// on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scores: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "scores_total",
			Help:      "Single area score computations by outcome.",
		}, []string{"outcome"}),
		batchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of batch scoring over the active dataset.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
		batchExcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "batch_excluded_total",
			Help:      "Areas left out of batch results because they could not be scored.",
		}),
		datasetRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "dataset_records",
			Help:      "Active records in the current dataset snapshot.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		m.scores, m.batchDuration, m.batchExcluded, m.datasetRecords, m.requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: Namespace}),
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Outcome classifies a scoring error.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, scoring.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, scoring.ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, scoring.ErrInvalidData):
		return OutcomeInvalidData
	}
	return OutcomeError
}

// ObserveScore counts one single-area computation.
func (m *Metrics) ObserveScore(err error) {
	m.scores.WithLabelValues(Outcome(err)).Inc()
}

// ObserveBatch records one batch run.
func (m *Metrics) ObserveBatch(d time.Duration, excluded int) {
	m.batchDuration.Observe(d.Seconds())
	m.batchExcluded.Add(float64(excluded))
}

// SetDatasetRecords reports the size of the active snapshot.
func (m *Metrics) SetDatasetRecords(n int) {
	m.datasetRecords.Set(float64(n))
}

// ObserveRequest counts one HTTP response.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}
