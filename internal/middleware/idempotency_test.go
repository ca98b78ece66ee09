package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

const allocateBody = `{"buy":{"M":10},"ship":{"M":10}}`

func idempotentRouter(cfg IdempotencyConfig, counter *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Idempotency(cfg))
	handle := func(c *gin.Context) {
		if counter != nil {
			*counter++
		}
		c.String(http.StatusOK, "ok")
	}
	router.POST("/api/allocate", handle)
	router.GET("/api/allocate", handle)
	return router
}

func allocateWith(router *gin.Engine, method, key, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/allocate", bytes.NewReader([]byte(body)))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	t.Run("POST without a key passes through", func(t *testing.T) {
		router := idempotentRouter(DefaultIdempotencyConfig(), nil)
		assert.Equal(t, http.StatusOK, allocateWith(router, http.MethodPost, "", allocateBody).Code)
	})

	t.Run("GET ignores the key", func(t *testing.T) {
		router := idempotentRouter(DefaultIdempotencyConfig(), nil)
		assert.Equal(t, http.StatusOK, allocateWith(router, http.MethodGet, "order-4711", "").Code)
	})

	t.Run("POST with a key passes through on first use", func(t *testing.T) {
		router := idempotentRouter(DefaultIdempotencyConfig(), nil)
		assert.Equal(t, http.StatusOK, allocateWith(router, http.MethodPost, "order-4711", allocateBody).Code)
	})
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	calls := 0
	router := idempotentRouter(DefaultIdempotencyConfig(), &calls)

	for i := 0; i < 2; i++ {
		w := allocateWith(router, http.MethodPost, "order-4711", allocateBody)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", w.Body.String())
	}

	assert.Equal(t, 1, calls, "second request must be served from the idempotency cache")
}

func TestIdempotency_Disabled(t *testing.T) {
	cfg := DefaultIdempotencyConfig()
	cfg.Enabled = false
	cfg.Cache = nil

	router := idempotentRouter(cfg, nil)
	assert.Equal(t, http.StatusOK, allocateWith(router, http.MethodPost, "", `{"buy":{"M":10}}`).Code)
}

func TestIdempotencyCache_cleanup(t *testing.T) {
	cache := newIdempotencyCache(100 * time.Millisecond)

	stamp := func(key uint64, body string, age time.Duration) {
		cache.mu.Lock()
		cache.items[key] = &cachedResponse{
			StatusCode: 200,
			Headers:    make(map[string]string),
			Body:       []byte(body),
			Timestamp:  time.Now().Add(-age),
		}
		cache.mu.Unlock()
	}
	stamp(1, "stale", 2*time.Hour)
	stamp(2, "fresh", 0)

	cache.cleanup()

	cache.mu.Lock()
	_, staleExists := cache.items[1]
	_, freshExists := cache.items[2]
	cache.mu.Unlock()

	assert.False(t, staleExists, "expired entry removed")
	assert.True(t, freshExists, "fresh entry kept")
}
