package ginutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestQueryInt(t *testing.T) {
	assert.Equal(t, 50, QueryInt(newContext("/x"), "limit", 50, 1, 200))
	assert.Equal(t, 10, QueryInt(newContext("/x?limit=10"), "limit", 50, 1, 200))
	assert.Equal(t, 200, QueryInt(newContext("/x?limit=900"), "limit", 50, 1, 200))
	assert.Equal(t, 1, QueryInt(newContext("/x?limit=-3"), "limit", 50, 1, 200))
	assert.Equal(t, 50, QueryInt(newContext("/x?limit=abc"), "limit", 50, 1, 200))
}

func TestQueryUint64(t *testing.T) {
	id, ok, err := QueryUint64(newContext("/x?sellerId=7"), "seller_id", "sellerId")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint64(7), id)

	_, ok, err = QueryUint64(newContext("/x"), "seller_id", "sellerId")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = QueryUint64(newContext("/x?seller_id=-1"), "seller_id")
	assert.True(t, ok)
	assert.Error(t, err)
}
