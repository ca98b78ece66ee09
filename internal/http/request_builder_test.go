package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/allocation-service/internal/domain/dto"
	"github.com/guttosm/allocation-service/internal/domain/model"
	"github.com/guttosm/allocation-service/internal/i18n"
	"github.com/guttosm/allocation-service/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const allocateBodyM12 = `{"buy": {"M": 12}, "ship": {"M": 12}}`

// jsonContext returns a test context whose request carries body as JSON.
func jsonContext(body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestRequestBuilder_Bind(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		c, _ := jsonContext(allocateBodyM12)

		var request dto.AllocateRequest
		require.NoError(t, NewRequestBuilder(c).Bind(&request))
		assert.Equal(t, 12, request.Buy["M"])
		assert.Equal(t, 12, request.Ship["M"])
	})

	for _, body := range []string{`{"buy": invalid}`, ``} {
		t.Run("rejects "+body, func(t *testing.T) {
			c, _ := jsonContext(body)

			var request dto.AllocateRequest
			assert.Error(t, NewRequestBuilder(c).Bind(&request))
		})
	}
}

func TestUnmarshalFromBytes(t *testing.T) {
	result, err := UnmarshalFromBytes[dto.AllocateRequest]([]byte(allocateBodyM12))
	require.NoError(t, err)
	assert.Equal(t, 12, result.Buy["M"])

	result, err = UnmarshalFromBytes[dto.AllocateRequest]([]byte(`{"buy": invalid}`))
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestUnmarshalFromReader(t *testing.T) {
	result, err := UnmarshalFromReader[dto.AllocateRequest](bytes.NewBufferString(allocateBodyM12))
	require.NoError(t, err)
	assert.Equal(t, 12, result.Buy["M"])

	result, err = UnmarshalFromReader[dto.AllocateRequest](bytes.NewBufferString(`{"buy": invalid}`))
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestBuildRequest(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		c, _ := jsonContext(allocateBodyM12)

		result, err := BuildRequest[dto.AllocateRequest](c)
		require.NoError(t, err)
		assert.Equal(t, 12, result.Buy["M"])
	})

	t.Run("invalid JSON", func(t *testing.T) {
		c, _ := jsonContext(`{"buy": invalid}`)

		result, err := BuildRequest[dto.AllocateRequest](c)
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestBuildRequestAndValidate(t *testing.T) {
	t.Run("valid request", func(t *testing.T) {
		c, _ := jsonContext(allocateBodyM12)

		result, err := BuildRequestAndValidate[dto.AllocateRequest](c)
		require.NoError(t, err)
		assert.Equal(t, 12, result.Buy["M"])
	})

	t.Run("negative quantity fails validation", func(t *testing.T) {
		c, _ := jsonContext(`{"buy": {"M": -3}, "ship": {"M": 3}}`)

		result, err := BuildRequestAndValidate[dto.AllocateRequest](c)
		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestResponseBuilder_ErrorMessages(t *testing.T) {
	t.Run("translated message key", func(t *testing.T) {
		c, w := jsonContext("")
		middleware.RequestID()(c)

		NewResponseBuilder(c).Error(http.StatusBadRequest, i18n.ErrKeyInvalidRequest, nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var errorResp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errorResp))
		assert.Equal(t, dto.ErrCodeInvalidRequest, errorResp.Error)
		assert.NotEmpty(t, errorResp.Message)
		assert.NotEmpty(t, errorResp.RequestID)
	})

	t.Run("literal message", func(t *testing.T) {
		c, w := jsonContext("")
		middleware.RequestID()(c)

		NewResponseBuilder(c).ErrorWithMessage(http.StatusBadRequest, "buy and ship totals do not match", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var errorResp dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errorResp))
		assert.Equal(t, "buy and ship totals do not match", errorResp.Message)
	})
}

func TestMarshalJSON(t *testing.T) {
	data := dto.AllocateRequest{Buy: model.SizeVector{"M": 12}, Ship: model.SizeVector{"M": 12}}

	raw, err := MarshalJSON(data)
	require.NoError(t, err)

	var decoded dto.AllocateRequest
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 12, decoded.Buy["M"])
}

func TestMarshalToWriter(t *testing.T) {
	data := dto.AllocateRequest{Buy: model.SizeVector{"M": 12}, Ship: model.SizeVector{"M": 12}}

	var buf bytes.Buffer
	require.NoError(t, MarshalToWriter(&buf, data))

	var decoded dto.AllocateRequest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 12, decoded.Buy["M"])
}
