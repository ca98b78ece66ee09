//go:build !integration

package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/allocation-service/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func Test_levelForStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   string
	}{
		{200, "info"},
		{301, "info"},
		{400, "warn"},
		{404, "warn"},
		{500, "error"},
		{503, "error"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			assert.Equal(t, tt.expected, levelForStatus(tt.statusCode))
		})
	}
}

func TestBuildLogEntry(t *testing.T) {
	gin.SetMode(gin.TestMode)

	userID := primitive.NewObjectID()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/allocate", nil)
	c.Request.Header.Set("User-Agent", "pos-bridge/1.4")
	c.Set("request_id", "req-7f3a")
	c.Set("user_id", userID)
	c.Set("user_email", "planner@warehouse.example")
	c.Status(http.StatusCreated)

	entry := buildLogEntry(c, 120*time.Millisecond)

	assert.Equal(t, "info", entry.Level)
	assert.Equal(t, http.MethodPost, entry.Method)
	assert.Equal(t, "/api/allocate", entry.Path)
	assert.Equal(t, http.StatusCreated, entry.StatusCode)
	assert.Equal(t, int64(120), entry.Duration)
	assert.Equal(t, "req-7f3a", entry.RequestID)
	assert.Equal(t, "pos-bridge/1.4", entry.UserAgent)
	assert.Equal(t, userID.Hex(), entry.UserID)
	assert.Equal(t, "planner@warehouse.example", entry.UserEmail)
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		statusCode int
		withDB     bool
	}{
		{name: "successful allocation", statusCode: 200, withDB: true},
		{name: "rejected allocation request", statusCode: 400, withDB: true},
		{name: "engine failure", statusCode: 500, withDB: true},
		{name: "console only without logging service", statusCode: 200, withDB: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var loggingService *mocks.MockLoggingService
			router := gin.New()
			router.Use(RequestID())
			if tt.withDB {
				loggingService = new(mocks.MockLoggingService)
				loggingService.On("CreateLog", mock.Anything, mock.AnythingOfType("*model.LogEntry")).Return(nil).Maybe()
				router.Use(RequestLogger(loggingService))
			} else {
				router.Use(RequestLogger(nil))
			}
			router.POST("/api/allocate", func(c *gin.Context) {
				c.Status(tt.statusCode)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/allocate", nil))

			assert.Equal(t, tt.statusCode, w.Code)
			if loggingService != nil {
				loggingService.AssertExpectations(t)
			}
		})
	}
}

func TestRequestLogger_PrefersAsyncLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	loggingService := new(mocks.MockLoggingService)
	loggingService.On("CreateLog", mock.Anything, mock.AnythingOfType("*model.LogEntry")).Return(nil)

	InitAsyncLogger(loggingService, AsyncLoggerConfig{BufferSize: 10, NumWorkers: 1, WriteTimeout: time.Second})
	defer StopAsyncLogger()

	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger(loggingService))
	router.GET("/api/allocations/run-42", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/allocations/run-42", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	StopAsyncLogger()

	loggingService.AssertExpectations(t)
}
