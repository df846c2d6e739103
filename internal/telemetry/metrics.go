// Package telemetry holds the Prometheus collectors exported on /metrics.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics for pacer. A nil *Metrics is valid and
// records nothing, so packages can take one unconditionally.
//
// Metrics:
//   - pacer_projects_created_total{checklist} - projects created, by checklist source
//   - pacer_store_recoveries_total{document} - unreadable documents replaced by empty ones
//   - pacer_store_operation_duration_seconds{op} - load/save latency
//   - pacer_http_requests_total{route,code} - API requests served
//   - pacer_projects{state} - dashboard partition at the last computation
type Metrics struct {
	registry *prometheus.Registry

	ProjectsCreated *prometheus.CounterVec
	StoreRecoveries *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
	HTTPRequests    *prometheus.CounterVec
	ProjectsByState *prometheus.GaugeVec
}

// New creates metrics registered on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ProjectsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pacer_projects_created_total",
			Help: "Total number of projects created",
		}, []string{"checklist"}),
		StoreRecoveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pacer_store_recoveries_total",
			Help: "Total number of unreadable store documents replaced by an empty default",
		}, []string{"document"}),
		StoreDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pacer_store_operation_duration_seconds",
			Help:    "Duration of store loads and saves in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		}, []string{"op"}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pacer_http_requests_total",
			Help: "Total number of API requests served",
		}, []string{"route", "code"}),
		ProjectsByState: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pacer_projects",
			Help: "Projects per dashboard state at the last computation",
		}, []string{"state"}),
	}
}

// Registry exposes the underlying registry for gathering in tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ProjectCreated counts a new project.
func (m *Metrics) ProjectCreated(checklist string) {
	if m == nil {
		return
	}
	if checklist == "" {
		checklist = "provided"
	}
	m.ProjectsCreated.WithLabelValues(checklist).Inc()
}

// StoreRecovered counts a document that could not be read.
func (m *Metrics) StoreRecovered(document string) {
	if m == nil {
		return
	}
	m.StoreRecoveries.WithLabelValues(document).Inc()
}

// ObserveStore records how long a store operation took.
func (m *Metrics) ObserveStore(op string, start time.Time) {
	if m == nil {
		return
	}
	m.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Request counts one served API request.
func (m *Metrics) Request(route, code string) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, code).Inc()
}

// SetDashboard publishes the dashboard partition.
func (m *Metrics) SetDashboard(active, planned, delayed, done int) {
	if m == nil {
		return
	}
	m.ProjectsByState.WithLabelValues("active").Set(float64(active))
	m.ProjectsByState.WithLabelValues("planned").Set(float64(planned))
	m.ProjectsByState.WithLabelValues("delayed").Set(float64(delayed))
	m.ProjectsByState.WithLabelValues("done").Set(float64(done))
}
