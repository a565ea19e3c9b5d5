// Package metrics holds the Prometheus collectors for the studio services.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the generation pipeline.
type Metrics struct {
	Generations        *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	ProviderPolls      *prometheus.CounterVec
	CreditsCharged     prometheus.Counter
	StorageFallbacks   prometheus.Counter
	InFlight           prometheus.Gauge
	HTTPRequests       *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Generations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_generations_total",
			Help: "Finished video generations by mode and outcome.",
		}, []string{"mode", "outcome"}),
		GenerationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studio_generation_duration_seconds",
			Help:    "Wall time from submission to settlement.",
			Buckets: []float64{15, 30, 60, 90, 120, 180, 300, 480, 600},
		}, []string{"mode"}),
		ProviderPolls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_provider_polls_total",
			Help: "Provider status checks by result.",
		}, []string{"provider", "result"}),
		CreditsCharged: f.NewCounter(prometheus.CounterOpts{
			Name: "studio_credits_charged_total",
			Help: "Credits debited for completed generations.",
		}),
		StorageFallbacks: f.NewCounter(prometheus.CounterOpts{
			Name: "studio_storage_fallbacks_total",
			Help: "Completions that kept the provider's transient URL.",
		}),
		InFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "studio_generations_in_flight",
			Help: "Generations currently being driven by this process.",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
		gatherer: g,
	}
}

// ObserveGeneration records one finished generation.
func (m *Metrics) ObserveGeneration(mode, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.Generations.WithLabelValues(mode, outcome).Inc()
	m.GenerationDuration.WithLabelValues(mode).Observe(took.Seconds())
}

func (m *Metrics) ObservePoll(provider, result string) {
	if m == nil {
		return
	}
	m.ProviderPolls.WithLabelValues(provider, result).Inc()
}

func (m *Metrics) AddCredits(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CreditsCharged.Add(float64(n))
}

func (m *Metrics) StorageFallback() {
	if m == nil {
		return
	}
	m.StorageFallbacks.Inc()
}

// Track increments the in-flight gauge and returns its release.
func (m *Metrics) Track() func() {
	if m == nil {
		return func() {}
	}
	m.InFlight.Inc()
	return m.InFlight.Dec
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
