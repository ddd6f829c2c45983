package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodedErrorResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("상세 메시지와 코드 기록", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		CodedErrorResponse(c, http.StatusConflict, "ALREADY_PAID", "Payout failed", errors.New("settlement already paid"))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "ALREADY_PAID", c.GetString(ErrorCodeKey))

		var body struct {
			Error ErrorInfo `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "ALREADY_PAID", body.Error.Code)
		assert.Equal(t, "Payout failed", body.Error.Message)
		assert.Equal(t, "settlement already paid", body.Error.Details)
	})

	t.Run("상태 코드에서 에러 코드 유도", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		ErrorResponse(c, http.StatusUnprocessableEntity, "bad", errors.New("bad"))

		assert.Equal(t, "UNPROCESSABLE_ENTITY", c.GetString(ErrorCodeKey))
		assert.NotContains(t, w.Body.String(), "details")
	})
}

func TestSuccessResponse_EmptyList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SuccessResponse(c, []string{}, &Meta{Page: 1, Limit: 20})

	assert.JSONEq(t, `{"data":[],"meta":{"page":1,"limit":20}}`, w.Body.String())
}
