package providers

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gsd/internal/structures"
)

// SaveStatsSource exposes the live values backing the gauge metrics.
// Implemented by the save service; declared here so the provider does not
// depend on the services package.
type SaveStatsSource interface {
	DirtyCount() int
	SaveFileSize() int64
}

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(duration time.Duration)
	IncSavesTotal(kind string, success bool)
	IncLoadsTotal(kind string, success bool)
	IncLoadFallbacks(tier string)
	IncCorruptionDetected()
	IncChecksumMismatches()
	IncBackupsTotal()
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration prometheus.Histogram
	savesTotal          *prometheus.CounterVec
	loadsTotal          *prometheus.CounterVec
	loadFallbacks       *prometheus.CounterVec
	corruptionDetected  prometheus.Counter
	checksumMismatches  prometheus.Counter
	backupsTotal        prometheus.Counter
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

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncSavesTotal(kind string, success bool) {
	m.savesTotal.WithLabelValues(kind, boolResult(success)).Inc()
}

func (m *MetricsProvider) IncLoadsTotal(kind string, success bool) {
	m.loadsTotal.WithLabelValues(kind, boolResult(success)).Inc()
}

func (m *MetricsProvider) IncLoadFallbacks(tier string) {
	m.loadFallbacks.WithLabelValues(tier).Inc()
}

func (m *MetricsProvider) IncCorruptionDetected() {
	m.corruptionDetected.Inc()
}

func (m *MetricsProvider) IncChecksumMismatches() {
	m.checksumMismatches.Inc()
}

func (m *MetricsProvider) IncBackupsTotal() {
	m.backupsTotal.Inc()
}

func boolResult(success bool) string {
	if success {
		return "ok"
	}
	return "error"
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

func NewMetricsProvider(conf *structures.Config, source SaveStatsSource) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	m := &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gsd_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gsd_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gsd_cache_hits_total",
			Help: "Total number of response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gsd_cache_misses_total",
			Help: "Total number of response cache misses",
		}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "gsd_persistence_duration_seconds",
			Help:    "Duration of disk persistence operations in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		savesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gsd_saves_total",
			Help: "Total number of save operations by record kind and result",
		}, []string{"kind", "result"}),

		loadsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gsd_loads_total",
			Help: "Total number of load operations by record kind and result",
		}, []string{"kind", "result"}),

		loadFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "gsd_load_fallbacks_total",
			Help: "Loads that fell back past the primary file, by tier",
		}, []string{"tier"}),

		corruptionDetected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gsd_corruption_detected_total",
			Help: "Times the primary save file was unreadable and the backup was used",
		}),

		checksumMismatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gsd_checksum_mismatches_total",
			Help: "Loaded records whose stored checksum did not match the recomputed one",
		}),

		backupsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gsd_backups_total",
			Help: "Total number of backups created",
		}),
	}

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "gsd_dirty_records",
		Help: "Number of cached records with unflushed mutations",
	}, func() float64 {
		return float64(source.DirtyCount())
	})

	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "gsd_save_file_bytes",
		Help: "Size of the primary save file in bytes",
	}, func() float64 {
		return float64(source.SaveFileSize())
	})

	return m
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncSavesTotal(_ string, _ bool)                   {}
func (n *noopMetrics) IncLoadsTotal(_ string, _ bool)                   {}
func (n *noopMetrics) IncLoadFallbacks(_ string)                        {}
func (n *noopMetrics) IncCorruptionDetected()                           {}
func (n *noopMetrics) IncChecksumMismatches()                           {}
func (n *noopMetrics) IncBackupsTotal()                                 {}
