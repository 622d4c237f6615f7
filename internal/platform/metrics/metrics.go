package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	LedgerQueryDuration *prometheus.HistogramVec
	StreamsClassified   *prometheus.CounterVec
	CacheHits           prometheus.Counter
	CacheMisses         prometheus.Counter
	SettlementPreviews  prometheus.Counter
	RequestDuration     *prometheus.HistogramVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		LedgerQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paystream_ledger_query_duration_seconds",
			Help:    "Latency of fullnode view and event queries",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		StreamsClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "paystream_streams_classified_total",
			Help: "Streams partitioned by lifecycle state",
		}, []string{"status"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paystream_snapshot_cache_hits_total",
			Help: "Ledger snapshot cache hits",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paystream_snapshot_cache_misses_total",
			Help: "Ledger snapshot cache misses",
		}),
		SettlementPreviews: promauto.NewCounter(prometheus.CounterOpts{
			Name: "paystream_settlement_previews_total",
			Help: "Cancellation settlement previews computed",
		}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "paystream_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// ObserveLedgerQuery records one fullnode round trip. Nil-safe so callers can
// run without metrics in tests.
func (m *Metrics) ObserveLedgerQuery(query string, d time.Duration) {
	if m == nil {
		return
	}
	m.LedgerQueryDuration.WithLabelValues(query).Observe(d.Seconds())
}

func (m *Metrics) AddClassified(status string, n int) {
	if m == nil {
		return
	}
	m.StreamsClassified.WithLabelValues(status).Add(float64(n))
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

func (m *Metrics) IncSettlementPreview() {
	if m == nil {
		return
	}
	m.SettlementPreviews.Inc()
}

func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}
