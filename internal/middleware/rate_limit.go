package middleware

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/allocation-service/internal/domain/dto"
	"github.com/guttosm/allocation-service/internal/i18n"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultNumShards spreads callers over enough locks that POS clients
// hammering the API don't contend on a single mutex.
const defaultNumShards = 16

// window state for one caller, keyed by identifier.
type callerWindow struct {
	tokens  int
	resetAt time.Time
}

type rateLimiterShard struct {
	mu      sync.Mutex
	callers map[string]*callerWindow
}

// ShardedRateLimiter is a fixed-window rate limiter whose caller table is
// split across shards to reduce lock contention.
type ShardedRateLimiter struct {
	shards    []*rateLimiterShard
	numShards int
	rate      int
	window    time.Duration
	done      chan struct{}
}

// RateLimiter is an alias for ShardedRateLimiter for backward compatibility.
type RateLimiter = ShardedRateLimiter

// NewRateLimiter creates a rate limiter allowing rate requests per window.
func NewRateLimiter(rate int, window time.Duration) *ShardedRateLimiter {
	return NewShardedRateLimiter(rate, window, defaultNumShards)
}

// NewShardedRateLimiter creates a rate limiter with a custom shard count.
func NewShardedRateLimiter(rate int, window time.Duration, numShards int) *ShardedRateLimiter {
	if numShards <= 0 {
		numShards = defaultNumShards
	}

	rl := &ShardedRateLimiter{
		shards:    make([]*rateLimiterShard, numShards),
		numShards: numShards,
		rate:      rate,
		window:    window,
		done:      make(chan struct{}),
	}
	for i := range rl.shards {
		rl.shards[i] = &rateLimiterShard{callers: make(map[string]*callerWindow)}
	}

	go rl.sweepLoop()
	return rl
}

func (rl *ShardedRateLimiter) shardFor(identifier string) *rateLimiterShard {
	h := fnv.New32a()
	h.Write([]byte(identifier))
	return rl.shards[h.Sum32()%uint32(rl.numShards)]
}

// checkRateLimit consumes one token for identifier, opening a fresh window
// when the previous one has elapsed.
func (rl *ShardedRateLimiter) checkRateLimit(identifier string) (allowed bool, remaining int) {
	shard := rl.shardFor(identifier)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	now := time.Now()
	cw := shard.callers[identifier]

	if cw == nil || now.Sub(cw.resetAt) > rl.window {
		shard.callers[identifier] = &callerWindow{tokens: rl.rate - 1, resetAt: now}
		return true, rl.rate - 1
	}

	if cw.tokens <= 0 {
		return false, 0
	}

	cw.tokens--
	return true, cw.tokens
}

// limit builds the middleware around an identifier function.
func (rl *ShardedRateLimiter) limit(identify func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining := rl.checkRateLimit(identify(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.rate))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if allowed {
			c.Next()
			return
		}

		c.Header("Retry-After", rl.window.String())
		msg := i18n.GetTranslator().Translate(i18n.ErrKeyRateLimitExceeded, i18n.GetLocale(c))
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			dto.NewError(dto.ErrCodeRateLimit, msg).WithRequestID(GetRequestID(c)))
	}
}

// RateLimit returns a middleware that limits requests per client IP.
func (rl *ShardedRateLimiter) RateLimit() gin.HandlerFunc {
	return rl.limit(func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// UserRateLimit returns a middleware that limits requests per authenticated
// user, falling back to the client IP for anonymous requests.
func (rl *ShardedRateLimiter) UserRateLimit() gin.HandlerFunc {
	return rl.limit(rl.getUserIdentifier)
}

func (rl *ShardedRateLimiter) getUserIdentifier(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(primitive.ObjectID); ok {
			return "user:" + id.Hex()
		}
	}
	return "ip:" + c.ClientIP()
}

func (rl *ShardedRateLimiter) sweepLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.done:
			return
		}
	}
}

// sweep drops callers whose window lapsed two windows ago.
func (rl *ShardedRateLimiter) sweep() {
	cutoff := time.Now().Add(-2 * rl.window)

	for _, shard := range rl.shards {
		shard.mu.Lock()
		for id, cw := range shard.callers {
			if cw.resetAt.Before(cutoff) {
				delete(shard.callers, id)
			}
		}
		shard.mu.Unlock()
	}
}

// Stop ends the background sweep goroutine.
func (rl *ShardedRateLimiter) Stop() {
	close(rl.done)
}

// Stats reports how many callers are tracked, in total and per shard.
func (rl *ShardedRateLimiter) Stats() (totalVisitors int, perShard []int) {
	perShard = make([]int, rl.numShards)
	for i, shard := range rl.shards {
		shard.mu.Lock()
		perShard[i] = len(shard.callers)
		totalVisitors += perShard[i]
		shard.mu.Unlock()
	}
	return totalVisitors, perShard
}
