package providers

import (
	"sbd/internal/structures"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SnapshotSource reports the size of the currently stored snapshot.
// Implemented by the storage layer; declared here so the provider does
// not depend on it.
type SnapshotSource interface {
	LiveCount() int
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncHelixRequests(endpoint string, status int)
	IncPollCycles(result string)
	ObservePollDuration(duration time.Duration)
	IncUnauthorized()
}

type MetricsProvider struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	helixRequests   *prometheus.CounterVec
	pollCycles      *prometheus.CounterVec
	pollDuration    prometheus.Histogram
	unauthorized    prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncHelixRequests(endpoint string, status int) {
	m.helixRequests.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) IncPollCycles(result string) {
	m.pollCycles.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) ObservePollDuration(duration time.Duration) {
	m.pollDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncUnauthorized() {
	m.unauthorized.Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config, snapshots SnapshotSource) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sbd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sbd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sbd_cache_hits_total",
			Help: "Total number of cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sbd_cache_misses_total",
			Help: "Total number of cache misses",
		}),

		helixRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sbd_helix_requests_total",
			Help: "Total number of upstream Helix API requests",
		}, []string{"endpoint", "status"}),

		pollCycles: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sbd_poll_cycles_total",
			Help: "Total number of poll cycles by result",
		}, []string{"result"}),

		pollDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sbd_poll_duration_seconds",
			Help:    "Duration of poll cycles in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		unauthorized: promauto.NewCounter(prometheus.CounterOpts{
			Name: "sbd_unauthorized_total",
			Help: "Total number of 401 responses from the Helix API",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "sbd_live_streams",
		Help: "Number of live streams in the stored snapshot",
	}, func() float64 {
		return float64(snapshots.LiveCount())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncHelixRequests(_ string, _ int)                 {}
func (n *noopMetrics) IncPollCycles(_ string)                           {}
func (n *noopMetrics) ObservePollDuration(_ time.Duration)              {}
func (n *noopMetrics) IncUnauthorized()                                 {}
