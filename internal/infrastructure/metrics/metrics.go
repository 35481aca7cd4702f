// Package metrics exposes Prometheus counters for message resolution and
// answer generation plus an HTTP latency histogram.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name
const Namespace = "paintassist"

// Metrics holds the service collectors
type Metrics struct {
	Resolutions     *prometheus.CounterVec
	Generations     *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// CacheStats is the read side of a cache that the collectors scrape
type CacheStats interface {
	Stats() (hits, misses int64)
	Size() int
}

// NewMetrics creates the collectors on a fresh registry that also carries
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "resolutions_total",
				Help:      "Messages resolved, by intent and outcome",
			},
			[]string{"intent", "outcome"},
		),
		Generations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "generations_total",
				Help:      "AI chat answers, by generator outcome",
			},
			[]string{"outcome"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		registry: reg,
	}
}

// ObserveResolution counts one resolved message
func (m *Metrics) ObserveResolution(intent, outcome string) {
	m.Resolutions.WithLabelValues(intent, outcome).Inc()
}

// ObserveGeneration counts one generator outcome
func (m *Metrics) ObserveGeneration(outcome string) {
	m.Generations.WithLabelValues(outcome).Inc()
}

// ObserveRequest records the latency of a served request
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// RegisterCache exports the hit, miss and entry counts of a cache. The
// values are read at scrape time.
func (m *Metrics) RegisterCache(cache CacheStats) {
	factory := promauto.With(m.registry)

	factory.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Reply cache lookups that found an entry",
		},
		func() float64 {
			hits, _ := cache.Stats()
			return float64(hits)
		},
	)
	factory.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Reply cache lookups that found nothing",
		},
		func() float64 {
			_, misses := cache.Stats()
			return float64(misses)
		},
	)
	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Entries held by the reply cache, expired ones included",
		},
		func() float64 { return float64(cache.Size()) },
	)
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
