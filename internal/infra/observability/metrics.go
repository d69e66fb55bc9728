package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds the client-side Prometheus metrics.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	Registry *prometheus.Registry

	requestDuration  *prometheus.HistogramVec
	requestsTotal    *prometheus.CounterVec
	externalErrors   *prometheus.CounterVec
	sessionFallbacks prometheus.Counter
	cacheHits        *prometheus.CounterVec
	cacheMisses      *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// client metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "portal_request_duration_seconds",
				Help:    "Duration of portal API calls by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_requests_total",
				Help: "Total portal API calls by operation and status.",
			},
			[]string{"operation", "status"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_external_errors_total",
				Help: "Total transport-level failures by operation.",
			},
			[]string{"operation"},
		),
		sessionFallbacks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "portal_session_fallbacks_total",
				Help: "Times a provisional session id was synthesized locally.",
			},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "portal_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
	}
}

// RecordRequest records one portal API call.
func (m *Metrics) RecordRequest(operation, status string, d time.Duration) {
	m.requestsTotal.WithLabelValues(operation, status).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the transport failure counter.
func (m *Metrics) IncrExternalError(operation string) {
	m.externalErrors.WithLabelValues(operation).Inc()
}

// IncrSessionFallback counts a provisional session id being minted.
func (m *Metrics) IncrSessionFallback() {
	m.sessionFallbacks.Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// Snapshot summarizes counters for the `tub status` view.
type Snapshot struct {
	Requests         float64
	ExternalErrors   float64
	SessionFallbacks float64
	CacheHitRate     float64
}

// GetSnapshot reads current counter values back out of the registry.
func (m *Metrics) GetSnapshot() Snapshot {
	var snap Snapshot

	families, err := m.Registry.Gather()
	if err != nil {
		return snap
	}

	var hits, misses float64
	for _, fam := range families {
		switch fam.GetName() {
		case "portal_requests_total":
			snap.Requests += sumCounters(fam)
		case "portal_external_errors_total":
			snap.ExternalErrors += sumCounters(fam)
		case "portal_session_fallbacks_total":
			snap.SessionFallbacks += sumCounters(fam)
		case "portal_cache_hits_total":
			hits = sumCounters(fam)
		case "portal_cache_misses_total":
			misses = sumCounters(fam)
		}
	}
	if hits+misses > 0 {
		snap.CacheHitRate = hits / (hits + misses)
	}
	return snap
}

func sumCounters(fam *dto.MetricFamily) float64 {
	var total float64
	for _, m := range fam.GetMetric() {
		if c := m.GetCounter(); c != nil {
			total += c.GetValue()
		}
	}
	return total
}
