// Package metrics provides Prometheus metrics for the dequedict cache.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics exported by the cache.
type Metrics struct {
	Hits        prometheus.Counter
	Misses      prometheus.Counter
	Evictions   prometheus.Counter
	Expirations prometheus.Counter
	Entries     prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a new Metrics instance with all metrics registered on a
// private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dequedict_cache_hits_total",
			Help: "Total number of cache lookups that found a live entry.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dequedict_cache_misses_total",
			Help: "Total number of cache lookups that found nothing or an expired entry.",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dequedict_cache_evictions_total",
			Help: "Total number of entries evicted as least recently used.",
		}),
		Expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dequedict_cache_expirations_total",
			Help: "Total number of entries removed because their TTL elapsed.",
		}),
		Entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dequedict_cache_entries",
			Help: "Current number of entries held by the cache.",
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.Hits,
		m.Misses,
		m.Evictions,
		m.Expirations,
		m.Entries,
	)

	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	registry.MustRegister(prometheus.NewGoCollector())

	return m
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the Prometheus registry for custom handlers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
