// Package metrics holds the Prometheus collectors for recipe generation and saved recipes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeIgnored = "ignored"
)

// Metrics groups the collectors registered on a single registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	submissions   *prometheus.CounterVec
	images        *prometheus.CounterVec
	staleImages   prometheus.Counter
	proxyDuration *prometheus.HistogramVec
	savedOps      *prometheus.CounterVec
	savedRecipes  prometheus.Gauge
}

// New creates the collectors on a fresh registry, including Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_generation_submissions_total",
			Help: "Recipe generation submissions by outcome",
		}, []string{"outcome"}),
		images: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_image_generations_total",
			Help: "Per-recipe image generations by outcome",
		}, []string{"outcome"}),
		staleImages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "recipe_image_stale_updates_total",
			Help: "Image results dropped because the recipe list changed",
		}),
		proxyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipe_proxy_request_duration_seconds",
			Help:    "Generation proxy call latency",
			Buckets: []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"type", "outcome"}),
		savedOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "saved_recipe_operations_total",
			Help: "Saved-recipe mutations by operation",
		}, []string{"op"}),
		savedRecipes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "saved_recipes",
			Help: "Number of recipes in the saved collection",
		}),
	}

	reg.MustRegister(m.submissions, m.images, m.staleImages, m.proxyDuration, m.savedOps, m.savedRecipes)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Image(outcome string) {
	if m == nil {
		return
	}
	m.images.WithLabelValues(outcome).Inc()
}

func (m *Metrics) StaleImage() {
	if m == nil {
		return
	}
	m.staleImages.Inc()
}

func (m *Metrics) ProxyCall(kind, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.proxyDuration.WithLabelValues(kind, outcome).Observe(seconds)
}

func (m *Metrics) SavedOp(op string, total int) {
	if m == nil {
		return
	}
	m.savedOps.WithLabelValues(op).Inc()
	m.savedRecipes.Set(float64(total))
}
