package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limiter(t *testing.T, rate int, window time.Duration) *ShardedRateLimiter {
	t.Helper()
	rl := NewShardedRateLimiter(rate, window, 4)
	t.Cleanup(rl.Stop)
	return rl
}

// drain fires n requests at the router and tallies 200s and 429s.
func drain(router *gin.Engine, n int, remoteAddr string) (okCount, blockedCount int) {
	for i := 0; i < n; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/allocate", nil)
		if remoteAddr != "" {
			req.RemoteAddr = remoteAddr
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		switch w.Code {
		case http.StatusOK:
			okCount++
		case http.StatusTooManyRequests:
			blockedCount++
		}
	}
	return okCount, blockedCount
}

func TestNewShardedRateLimiter(t *testing.T) {
	for name, tc := range map[string]struct{ requested, want int }{
		"default shards when zero":     {0, defaultNumShards},
		"default shards when negative": {-1, defaultNumShards},
		"custom shard count":           {8, 8},
	} {
		t.Run(name, func(t *testing.T) {
			rl := NewShardedRateLimiter(10, time.Minute, tc.requested)
			defer rl.Stop()

			assert.Equal(t, tc.want, rl.numShards)
			assert.Equal(t, 10, rl.rate)
			assert.Equal(t, time.Minute, rl.window)
			assert.Len(t, rl.shards, tc.want)
		})
	}
}

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(10, time.Minute)
	defer rl.Stop()

	assert.Equal(t, defaultNumShards, rl.numShards)
}

func TestShardedRateLimiter_CheckRateLimit(t *testing.T) {
	for name, tc := range map[string]struct{ rate, requests, wantAllowed, wantBlocked int }{
		"under the limit":      {5, 3, 3, 0},
		"exactly at the limit": {5, 5, 5, 0},
		"over the limit":       {5, 8, 5, 3},
		"single request quota": {1, 3, 1, 2},
	} {
		t.Run(name, func(t *testing.T) {
			rl := limiter(t, tc.rate, time.Minute)

			allowed, blocked := 0, 0
			for i := 0; i < tc.requests; i++ {
				if ok, _ := rl.checkRateLimit("scanner-1"); ok {
					allowed++
				} else {
					blocked++
				}
			}

			assert.Equal(t, tc.wantAllowed, allowed)
			assert.Equal(t, tc.wantBlocked, blocked)
		})
	}
}

func TestShardedRateLimiter_RemainingTokens(t *testing.T) {
	rl := limiter(t, 5, time.Minute)

	for i, want := range []int{4, 3, 2, 1, 0, 0} {
		_, remaining := rl.checkRateLimit("scanner-1")
		assert.Equal(t, want, remaining, "request %d", i+1)
	}
}

func TestShardedRateLimiter_MultipleIdentifiers(t *testing.T) {
	rl := limiter(t, 3, time.Minute)

	// Each identifier gets its own quota.
	for _, id := range []string{"cedarhurst-pos", "lakewood-pos", "warehouse-scanner"} {
		for i := 0; i < 3; i++ {
			allowed, _ := rl.checkRateLimit(id)
			assert.True(t, allowed, "request %d for %s", i+1, id)
		}
		allowed, _ := rl.checkRateLimit(id)
		assert.False(t, allowed, "4th request for %s", id)
	}
}

func TestShardedRateLimiter_RateLimit_Middleware(t *testing.T) {
	for name, tc := range map[string]struct{ rate, requests, wantOK, want429 int }{
		"all requests pass":     {5, 3, 3, 0},
		"some requests blocked": {3, 5, 3, 2},
	} {
		t.Run(name, func(t *testing.T) {
			rl := limiter(t, tc.rate, time.Minute)

			router := gin.New()
			router.Use(rl.RateLimit())
			router.GET("/api/allocate", func(c *gin.Context) { c.Status(http.StatusOK) })

			okCount, blockedCount := drain(router, tc.requests, "10.0.0.7:52001")
			assert.Equal(t, tc.wantOK, okCount)
			assert.Equal(t, tc.want429, blockedCount)
		})
	}
}

func TestShardedRateLimiter_UserRateLimit_Middleware(t *testing.T) {
	rl := limiter(t, 3, time.Minute)
	userID := primitive.NewObjectID()

	router := gin.New()
	// Stand in for the JWT middleware setting user_id.
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	router.Use(rl.UserRateLimit())
	router.GET("/api/allocate", func(c *gin.Context) { c.Status(http.StatusOK) })

	okCount, blockedCount := drain(router, 5, "")
	assert.Equal(t, 3, okCount)
	assert.Equal(t, 2, blockedCount)
}

func TestShardedRateLimiter_GetUserIdentifier(t *testing.T) {
	rl := limiter(t, 10, time.Minute)

	identifierFor := func(setup func(c *gin.Context)) string {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = "10.0.0.7:52001"
		if setup != nil {
			setup(c)
		}
		return rl.getUserIdentifier(c)
	}

	assert.Contains(t, identifierFor(func(c *gin.Context) {
		c.Set("user_id", primitive.NewObjectID())
	}), "user:", "authenticated requests are keyed by user")
	assert.Contains(t, identifierFor(nil), "ip:", "anonymous requests are keyed by IP")
}

func TestShardedRateLimiter_Stats(t *testing.T) {
	rl := limiter(t, 10, time.Minute)

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		rl.checkRateLimit(id)
	}

	total, perShard := rl.Stats()
	assert.Equal(t, 5, total)
	assert.Len(t, perShard, 4)

	sum := 0
	for _, count := range perShard {
		sum += count
	}
	assert.Equal(t, total, sum)
}

func TestShardedRateLimiter_WindowReset(t *testing.T) {
	rl := limiter(t, 2, 50*time.Millisecond)

	rl.checkRateLimit("scanner-1")
	rl.checkRateLimit("scanner-1")
	allowed, _ := rl.checkRateLimit("scanner-1")
	assert.False(t, allowed)

	time.Sleep(60 * time.Millisecond)

	allowed, remaining := rl.checkRateLimit("scanner-1")
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
}
