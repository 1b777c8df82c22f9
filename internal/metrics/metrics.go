package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides observability for the report pipeline.
// Each instance owns its registry so tests and multiple servers never collide.
type Metrics struct {
	registry *prometheus.Registry

	ReportsTotal       *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	RenderDuration     prometheus.Histogram
	DocumentPages      prometheus.Histogram
}

// New creates a new Metrics instance with all pipeline metrics registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ReportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "curavie_reports_total",
			Help: "Report runs by outcome (delivered or a failure reason)",
		}, []string{"outcome"}),
		GenerationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "curavie_generation_duration_seconds",
			Help:    "Duration of generation calls by model",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"model"}),
		RenderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "curavie_render_duration_seconds",
			Help:    "Duration of PDF rendering",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		DocumentPages: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "curavie_document_pages",
			Help:    "Page count of delivered reports",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12},
		}),
	}
}

// RecordOutcome counts a finished report run.
func (m *Metrics) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.ReportsTotal.WithLabelValues(outcome).Inc()
}

// ObserveGeneration records the duration of a generation call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveGeneration(model string, start time.Time) {
	if m == nil {
		return
	}
	m.GenerationDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
}

// ObserveRender records the duration of a render and the resulting page count.
func (m *Metrics) ObserveRender(start time.Time, pages int) {
	if m == nil {
		return
	}
	m.RenderDuration.Observe(time.Since(start).Seconds())
	if pages > 0 {
		m.DocumentPages.Observe(float64(pages))
	}
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
