// Package metrics exposes the service's Prometheus collectors and the gin
// middleware that feeds the HTTP ones.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestDuration observes request latency by method, path and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status_code"})

	// HTTPRequestTotal counts requests by method, path and status.
	HTTPRequestTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status_code"})

	// AllocationsTotal counts allocation runs by outcome.
	AllocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "allocations_total",
		Help: "Total number of allocation runs",
	}, []string{"status"})

	// AllocationDuration observes allocation run latency. Runs are pure
	// in-memory arithmetic, so the buckets sit well below the HTTP defaults.
	AllocationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "allocation_duration_seconds",
		Help:    "Allocation run duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	})

	// ScanOperationsTotal counts receiving scans applied to stored allocations.
	ScanOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_operations_total",
		Help: "Total number of receiving scan operations",
	}, []string{"status"})

	// CacheOperationsTotal counts cache gets and sets by result.
	CacheOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_operations_total",
		Help: "Total number of cache operations",
	}, []string{"operation", "result"})

	// CacheSize gauges the number of cached allocation results.
	CacheSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cache_size",
		Help: "Current cache size",
	})

	// CacheCapacity gauges the configured cache capacity.
	CacheCapacity = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cache_capacity",
		Help: "Cache capacity",
	})
)

// PrometheusMiddleware records duration and count for every request. The
// route template is used as the path label so /api/allocations/:id does not
// explode cardinality; unmatched routes fall back to the raw URL path.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		labels := []string{c.Request.Method, path, strconv.Itoa(c.Writer.Status())}
		HTTPRequestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		HTTPRequestTotal.WithLabelValues(labels...).Inc()
	}
}

// RecordAllocation records one allocation run.
func RecordAllocation(duration time.Duration, status string) {
	AllocationDuration.Observe(duration.Seconds())
	AllocationsTotal.WithLabelValues(status).Inc()
}

// RecordScanOperation records one receiving scan.
func RecordScanOperation(status string) {
	ScanOperationsTotal.WithLabelValues(status).Inc()
}

// RecordCacheOperation records one cache get or set.
func RecordCacheOperation(operation, result string) {
	CacheOperationsTotal.WithLabelValues(operation, result).Inc()
}

// UpdateCacheMetrics refreshes the cache size and capacity gauges.
func UpdateCacheMetrics(size, capacity int) {
	CacheSize.Set(float64(size))
	CacheCapacity.Set(float64(capacity))
}
