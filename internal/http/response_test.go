package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/allocation-service/internal/domain/dto"
	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/middleware"
)

// respond runs fn against a context that already passed the request ID
// middleware, the way handlers see it in production.
func respond(fn func(*ResponseBuilder)) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/allocate", nil)
	middleware.RequestID()(c)
	fn(NewResponseBuilder(c))
	return w
}

func TestResponseBuilder_Success(t *testing.T) {
	t.Run("wraps allocation result with metadata", func(t *testing.T) {
		result := model.AllocationResult{
			Allocation: model.AllocationMatrix{"Cedarhurst": {"M": 2}},
			Totals:     model.SizeVector{"M": 2},
			PackSize:   10,
		}

		w := respond(func(b *ResponseBuilder) { b.Success(http.StatusOK, result) })

		var resp dto.SuccessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, resp.RequestID)
		assert.NotZero(t, resp.Timestamp)
		assert.NotNil(t, resp.Data)
	})

	t.Run("honors a custom status", func(t *testing.T) {
		w := respond(func(b *ResponseBuilder) {
			b.Success(http.StatusCreated, map[string]string{"message": "created"})
		})

		var resp dto.SuccessResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NotEmpty(t, resp.RequestID)
	})
}

func TestResponseBuilder_SuccessOK(t *testing.T) {
	w := respond(func(b *ResponseBuilder) {
		b.SuccessOK(map[string]string{"status": "healthy"})
	})

	var resp dto.SuccessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, resp.RequestID)
}

func TestResponseBuilder_Error(t *testing.T) {
	t.Run("bad request carries the message", func(t *testing.T) {
		w := respond(func(b *ResponseBuilder) {
			b.Error(http.StatusBadRequest, "buy and ship totals do not match", nil)
		})

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidRequest, resp.Error)
		assert.Equal(t, "buy and ship totals do not match", resp.Message)
		assert.NotEmpty(t, resp.RequestID)
	})

	t.Run("internal errors map to the internal code", func(t *testing.T) {
		w := respond(func(b *ResponseBuilder) {
			b.Error(http.StatusInternalServerError, "server error", nil)
		})

		var resp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error)
	})
}

func TestResponseBuilder_SuccessAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.POST("/api/allocate", func(c *gin.Context) {
		NewResponseBuilder(c).SuccessAccepted(map[string]interface{}{"status": "accepted"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/allocate", nil))

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), "accepted")
}

func TestSuccessResponse_JSON(t *testing.T) {
	resp := dto.SuccessResponse{
		Data:      model.AllocationResult{Totals: model.SizeVector{"M": 20}, PackSize: 10},
		RequestID: "req-alloc-1",
		Timestamp: time.Now(),
	}

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, field := range []string{"req-alloc-1", "data", "request_id", "timestamp"} {
		assert.Contains(t, string(raw), field)
	}
}
