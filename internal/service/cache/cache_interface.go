// Package cache defines the contract allocation result caches satisfy.
package cache

import "github.com/guttosm/allocation-service/internal/domain/model"

// Cache stores allocation results keyed by request fingerprint.
type Cache interface {
	Get(key string) (model.AllocationResult, bool)
	Set(key string, value model.AllocationResult)
	Invalidate(key string)
	Clear()
	Stop()
}

// Metrics is a point-in-time snapshot of cache effectiveness.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// CacheWithMetrics is a Cache that can report its counters.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
