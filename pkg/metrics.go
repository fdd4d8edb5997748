package pixelcache

// metrics.go is a thin abstraction over Prometheus so pixelcache can be used
// with or without metrics. When the caller passes a *prometheus.Registry via
// WithMetrics, labeled collectors are created and registered. Otherwise a
// no-op sink is used and the hot path (Get/Available) pays nothing extra.
//
// All metrics are labeled by the cache's diagnostic Name(), since a host
// typically runs one pixelcache per open image/pipe.
//
// ┌──────────────────────────────────┐
// │ Metric                   │ Type │
// ├───────────────────────────┼──────┤
// │ pixelcache_queries_total  │ Ctr  │
// │ pixelcache_misses_total   │ Ctr  │
// │ pixelcache_evictions_total│ Ctr  │
// │ pixelcache_resident_bytes │ Gge  │
// └──────────────────────────────────┘
//
// © 2025 pixelcache authors. MIT License.

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metricsSink abstracts the concrete backend (Prometheus vs noop). It is
// not exposed outside the package; Cache only knows about these methods.
type metricsSink interface {
	incQuery(name string)
	incMiss(name string)
	incEvict(name string)
	setResidentBytes(name string, value int64)
}

type noopMetrics struct{}

func (noopMetrics) incQuery(string)                {}
func (noopMetrics) incMiss(string)                 {}
func (noopMetrics) incEvict(string)                {}
func (noopMetrics) setResidentBytes(string, int64) {}

type promMetrics struct {
	queries   *prometheus.CounterVec
	misses    *prometheus.CounterVec
	evictions *prometheus.CounterVec
	resident  *prometheus.GaugeVec
}

func newPromMetrics(reg *prometheus.Registry) *promMetrics {
	label := []string{"cache"}

	pm := &promMetrics{
		queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pixelcache",
				Name:      "queries_total",
				Help:      "Number of Get/GetImportant/GetWeighted calls.",
			}, label),
		misses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pixelcache",
				Name:      "misses_total",
				Help:      "Number of lookups that did not find a matching entry.",
			}, label),
		evictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "pixelcache",
				Name:      "evictions_total",
				Help:      "Number of times a live entry was chosen as a victim.",
			}, label),
		resident: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "pixelcache",
				Name:      "resident_bytes",
				Help:      "Total bytes currently backing all entries.",
			}, label),
	}

	reg.MustRegister(pm.queries, pm.misses, pm.evictions, pm.resident)
	return pm
}

func (m *promMetrics) incQuery(name string) { m.queries.WithLabelValues(name).Inc() }
func (m *promMetrics) incMiss(name string)  { m.misses.WithLabelValues(name).Inc() }
func (m *promMetrics) incEvict(name string) { m.evictions.WithLabelValues(name).Inc() }
func (m *promMetrics) setResidentBytes(name string, value int64) {
	m.resident.WithLabelValues(name).Set(float64(value))
}

// newMetricsSink decides which implementation to use based on whether the
// caller opted in via WithMetrics.
func newMetricsSink(reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(reg)
}
