// Package telemetry provides Prometheus instrumentation for the advisor
// server.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/iwvelando/ads-advisor/pkg/rules"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors registered on one registry.
type Metrics struct {
	registry *prometheus.Registry

	// Recommendations counts recommendations emitted, partitioned by action.
	Recommendations *prometheus.CounterVec

	// Evaluations counts evaluation runs, partitioned by outcome.
	Evaluations *prometheus.CounterVec

	// ProductsEvaluated tracks the size of evaluated collections.
	ProductsEvaluated prometheus.Histogram

	// EvaluationDuration tracks evaluation time in seconds.
	EvaluationDuration prometheus.Histogram

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Recommendations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ads_advisor_recommendations_total",
			Help: "Total recommendations emitted",
		}, []string{"action"}),
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ads_advisor_evaluations_total",
			Help: "Total evaluation runs",
		}, []string{"outcome"}),
		ProductsEvaluated: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ads_advisor_products_per_evaluation",
			Help:    "Number of products in each evaluation",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		EvaluationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ads_advisor_evaluation_duration_seconds",
			Help:    "Evaluation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ads_advisor_http_requests_total",
			Help: "Total HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ads_advisor_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}, []string{"method", "path"}),
	}

	m.registry.MustRegister(
		m.Recommendations,
		m.Evaluations,
		m.ProductsEvaluated,
		m.EvaluationDuration,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)
	for _, action := range rules.Actions {
		m.Recommendations.WithLabelValues(string(action))
	}
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveEvaluation records a successful evaluation.
func (m *Metrics) ObserveEvaluation(actions []rules.Action, elapsed time.Duration) {
	m.Evaluations.WithLabelValues("success").Inc()
	m.ProductsEvaluated.Observe(float64(len(actions)))
	m.EvaluationDuration.Observe(elapsed.Seconds())
	for _, action := range actions {
		m.Recommendations.WithLabelValues(string(action)).Inc()
	}
}

// ObserveRejection records an evaluation refused because of invalid input.
func (m *Metrics) ObserveRejection() {
	m.Evaluations.WithLabelValues("rejected").Inc()
}

// OtherRoute labels requests to paths the server does not serve.
const OtherRoute = "other"

var knownRoutes = map[string]bool{
	"/api/evaluate": true,
	"/api/upload":   true,
	"/api/version":  true,
	"/metrics":      true,
}

// RouteLabel maps a request path onto the fixed set of path label values.
func RouteLabel(path string) string {
	if knownRoutes[path] {
		return path
	}
	return OtherRoute
}

// Middleware records request counts and latency.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		route := RouteLabel(r.URL.Path)
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
