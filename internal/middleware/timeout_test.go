package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serveWithTimeout(mw gin.HandlerFunc, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/allocate", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/allocate", nil))
	return w
}

func okStatus(c *gin.Context) { c.Status(http.StatusOK) }

func TestDefaultTimeoutConfig(t *testing.T) {
	cfg := DefaultTimeoutConfig()

	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "Request timeout", cfg.ErrorMessage)
}

func TestTimeout_RequestCompletesInTime(t *testing.T) {
	cfg := TimeoutConfig{Timeout: time.Second, ErrorMessage: "timeout"}

	for name, delay := range map[string]time.Duration{
		"zero delay": 0,
		"short work": 10 * time.Millisecond,
	} {
		t.Run(name, func(t *testing.T) {
			w := serveWithTimeout(Timeout(cfg), func(c *gin.Context) {
				if delay > 0 {
					time.Sleep(delay)
				}
				c.Status(http.StatusOK)
			})
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestTimeoutWithDuration(t *testing.T) {
	for _, timeout := range []time.Duration{time.Second, 5 * time.Second, 100 * time.Millisecond} {
		t.Run(timeout.String(), func(t *testing.T) {
			w := serveWithTimeout(TimeoutWithDuration(timeout), okStatus)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestTimeout_ContextHasDeadline(t *testing.T) {
	hasDeadline := false
	w := serveWithTimeout(TimeoutWithDuration(time.Second), func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	assert.True(t, hasDeadline, "handler must see the deadline")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimeout_RepeatedFastRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(TimeoutWithDuration(100 * time.Millisecond))
	router.GET("/allocate", okStatus)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/allocate", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
