package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filterRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_filter_requests_total",
			Help: "Filter passes by date bucket and result cache outcome",
		},
		[]string{"date_bucket", "cache"},
	)

	filterResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "events_filter_result_size",
			Help:    "Number of events returned by a filter pass",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	filterDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "events_filter_duration_seconds",
			Help:    "Time spent producing a filtered list",
			Buckets: prometheus.DefBuckets,
		},
	)

	catalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "events_catalog_size",
			Help: "Events in the current catalog snapshot",
		},
	)

	catalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_catalog_reloads_total",
			Help: "Catalog snapshot reloads by outcome",
		},
		[]string{"status"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_http_requests_total",
			Help: "HTTP requests by method and status code",
		},
		[]string{"method", "code"},
	)
)

// bucketLabel keeps label cardinality bounded: free-form bucket values are
// folded into "other".
func bucketLabel(bucket string, known bool) string {
	switch {
	case bucket == "":
		return "none"
	case known:
		return bucket
	default:
		return "other"
	}
}

// TrackFilter records one filter pass.
func TrackFilter(bucket string, known bool, cache string, results int, took time.Duration) {
	filterRequests.WithLabelValues(bucketLabel(bucket, known), cache).Inc()
	filterResults.Observe(float64(results))
	filterDuration.Observe(took.Seconds())
}

// TrackReload records a snapshot reload and, on success, the new size.
func TrackReload(err error, size int) {
	if err != nil {
		catalogReloads.WithLabelValues("error").Inc()
		return
	}
	catalogReloads.WithLabelValues("ok").Inc()
	catalogSize.Set(float64(size))
}

func TrackHTTP(method string, code int) {
	httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
}
