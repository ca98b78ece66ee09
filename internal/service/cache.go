// Package service contains the business logic for the allocation service.
package service

import (
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/metrics"
	"github.com/guttosm/allocation-service/internal/service/cache"
)

// A coarse clock backs expiry stamps so hot cache paths avoid a time.Now()
// syscall per operation. It is refreshed every 100ms by a background ticker.
var (
	coarseClock     atomic.Value
	coarseClockOnce sync.Once
)

func init() {
	coarseClockOnce.Do(func() {
		coarseClock.Store(time.Now())
		go func() {
			ticker := time.NewTicker(100 * time.Millisecond)
			for t := range ticker.C {
				coarseClock.Store(t)
			}
		}()
	})
}

// now returns the coarse clock's reading, which may lag real time by up
// to 100ms. Good enough for stamping expirations, not for checking them.
func now() time.Time {
	if t, ok := coarseClock.Load().(time.Time); ok {
		return t
	}
	return time.Now()
}

// ShardedCache splits keys across independent ttlCache shards so
// concurrent allocators rarely contend on the same lock.
type ShardedCache struct {
	shards    []*ttlCache
	numShards int
	shardMask int
}

// NewShardedCache builds a sharded cache holding capacity entries in
// total. numShards is rounded up to a power of 2 so the shard index can
// be a mask instead of a modulo.
func NewShardedCache(capacity int, ttl time.Duration, numShards int) *ShardedCache {
	if numShards <= 0 {
		numShards = 16
	}
	n := 1
	for n < numShards {
		n *= 2
	}

	perShard := capacity / n
	if perShard < 1 {
		perShard = 1
	}
	shards := make([]*ttlCache, n)
	for i := range shards {
		shards[i] = newTTLCache(perShard, ttl)
	}

	return &ShardedCache{
		shards:    shards,
		numShards: n,
		shardMask: n - 1,
	}
}

func (sc *ShardedCache) getShard(key string) *ttlCache {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return sc.shards[int(h.Sum32())&sc.shardMask]
}

// Get retrieves a value from the shard owning key.
func (sc *ShardedCache) Get(key string) (model.AllocationResult, bool) {
	return sc.getShard(key).Get(key)
}

// Set stores a value in the shard owning key.
func (sc *ShardedCache) Set(key string, value model.AllocationResult) {
	sc.getShard(key).Set(key, value)
}

// Invalidate drops key from its shard.
func (sc *ShardedCache) Invalidate(key string) {
	sc.getShard(key).Invalidate(key)
}

// Clear empties every shard.
func (sc *ShardedCache) Clear() {
	for _, shard := range sc.shards {
		shard.Clear()
	}
}

// Stop shuts down every shard's cleanup goroutine.
func (sc *ShardedCache) Stop() {
	for _, shard := range sc.shards {
		shard.Stop()
	}
}

// Metrics sums the per-shard counters into one view.
func (sc *ShardedCache) Metrics() cache.Metrics {
	var total cache.Metrics
	for _, shard := range sc.shards {
		m := shard.Metrics()
		total.Hits += m.Hits
		total.Misses += m.Misses
		total.Evictions += m.Evictions
		total.Size += m.Size
		total.Capacity += m.Capacity
	}
	return total
}

// ttlCache is an LRU cache whose entries also expire after a fixed TTL.
// Recency is tracked with an intrusive doubly linked list over the map
// entries. It implements cache.Cache and cache.CacheWithMetrics.
type ttlCache struct {
	mu       sync.RWMutex
	capacity int
	ttl      time.Duration
	items    map[string]*cacheEntry
	head     *cacheEntry
	tail     *cacheEntry
	stopCh   chan struct{}

	hits      int64
	misses    int64
	evictions int64
}

type cacheEntry struct {
	key       string
	value     model.AllocationResult
	expiresAt time.Time
	prev      *cacheEntry
	next      *cacheEntry
}

// newTTLCache builds the cache and starts its background sweeper.
func newTTLCache(capacity int, ttl time.Duration) *ttlCache {
	c := &ttlCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*cacheEntry, capacity),
		stopCh:   make(chan struct{}),
	}
	go c.startCleanup()
	return c
}

// Stop terminates the background sweeper.
func (c *ttlCache) Stop() {
	close(c.stopCh)
}

// Metrics reports hit/miss/eviction counters and current occupancy.
func (c *ttlCache) Metrics() cache.Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return cache.Metrics{
		Hits:      atomic.LoadInt64(&c.hits),
		Misses:    atomic.LoadInt64(&c.misses),
		Evictions: atomic.LoadInt64(&c.evictions),
		Size:      len(c.items),
		Capacity:  c.capacity,
	}
}

// Get returns the cached value for key if present and unexpired, and
// marks the entry as most recently used.
func (c *ttlCache) Get(key string) (model.AllocationResult, bool) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		atomic.AddInt64(&c.misses, 1)
		metrics.RecordCacheOperation("get", "miss")
		return model.AllocationResult{}, false
	}

	// Expiry is checked against the real clock; the coarse clock's 100ms
	// lag would let entries outlive their TTL.
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		if _, still := c.items[key]; still {
			c.removeEntry(entry)
		}
		c.mu.Unlock()
		atomic.AddInt64(&c.misses, 1)
		metrics.RecordCacheOperation("get", "expired")
		return model.AllocationResult{}, false
	}

	c.mu.Lock()
	c.moveToFront(entry)
	c.mu.Unlock()

	atomic.AddInt64(&c.hits, 1)
	metrics.RecordCacheOperation("get", "hit")
	return entry.value, true
}

// Set inserts or refreshes key, evicting the least recently used entry
// when the cache is full.
func (c *ttlCache) Set(key string, value model.AllocationResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		entry.value = value
		entry.expiresAt = now().Add(c.ttl)
		c.moveToFront(entry)
		return
	}

	entry := &cacheEntry{
		key:       key,
		value:     value,
		expiresAt: now().Add(c.ttl),
	}
	c.items[key] = entry
	c.addToFront(entry)

	if len(c.items) > c.capacity {
		c.removeTail()
		atomic.AddInt64(&c.evictions, 1)
		metrics.RecordCacheOperation("evict", "capacity")
	}
	metrics.RecordCacheOperation("set", "success")
}

// startCleanup sweeps expired entries once a minute, but only when the
// cache is over 80% full; sparse caches expire lazily on Get.
func (c *ttlCache) startCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.RLock()
			crowded := len(c.items) > c.capacity*80/100
			c.mu.RUnlock()
			if crowded {
				c.cleanup()
			}
		case <-c.stopCh:
			return
		}
	}
}

// cleanup drops every expired entry.
func (c *ttlCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := now()
	for _, entry := range c.items {
		if cutoff.After(entry.expiresAt) {
			c.removeEntry(entry)
		}
	}
}

func (c *ttlCache) removeEntry(entry *cacheEntry) {
	delete(c.items, entry.key)
	c.unlink(entry)
}

func (c *ttlCache) moveToFront(entry *cacheEntry) {
	if entry == c.head {
		return
	}
	c.unlink(entry)
	c.addToFront(entry)
}

func (c *ttlCache) addToFront(entry *cacheEntry) {
	entry.prev = nil
	entry.next = c.head
	if c.head != nil {
		c.head.prev = entry
	}
	c.head = entry
	if c.tail == nil {
		c.tail = entry
	}
}

// unlink detaches entry from the recency list, leaving the map alone.
func (c *ttlCache) unlink(entry *cacheEntry) {
	if entry.prev != nil {
		entry.prev.next = entry.next
	} else {
		c.head = entry.next
	}
	if entry.next != nil {
		entry.next.prev = entry.prev
	} else {
		c.tail = entry.prev
	}
}

func (c *ttlCache) removeTail() {
	if c.tail == nil {
		return
	}
	delete(c.items, c.tail.key)
	c.unlink(c.tail)
}

// Invalidate drops key if present.
func (c *ttlCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.items[key]; ok {
		c.removeEntry(entry)
		metrics.RecordCacheOperation("invalidate", "success")
	}
}

// Clear empties the cache and resets its counters.
func (c *ttlCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*cacheEntry, c.capacity)
	c.head = nil
	c.tail = nil

	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.evictions, 0)

	metrics.RecordCacheOperation("clear", "success")
}
