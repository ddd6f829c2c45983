package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/damoang/payout-ledger/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"actor":     Actor(c),
			"seller_id": GetSellerID(c),
		})
	})
	return r
}

func serve(r *gin.Engine, header, value string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAdmin(t *testing.T) {
	withRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(ctxRole, role)
			c.Next()
		}
	}

	assert.Equal(t, http.StatusOK, serve(newTestRouter(withRole(jwt.RoleAdmin), RequireAdmin()), "", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(newTestRouter(withRole(jwt.RoleSeller), RequireAdmin()), "", "").Code)
	assert.Equal(t, http.StatusForbidden, serve(newTestRouter(RequireAdmin()), "", "").Code)
}

func TestJWTAuth(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour)
	r := newTestRouter(JWTAuth(manager))

	t.Run("헤더 없음", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(r, "", "").Code)
	})

	t.Run("잘못된 형식", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(r, "Authorization", "Token abc").Code)
	})

	t.Run("seller 토큰", func(t *testing.T) {
		token, err := manager.GenerateToken("42", jwt.RoleSeller)
		require.NoError(t, err)

		w := serve(r, "Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"actor":"seller:42","seller_id":42}`, w.Body.String())
	})

	t.Run("admin 토큰은 seller_id 없음", func(t *testing.T) {
		token, err := manager.GenerateToken("7", jwt.RoleAdmin)
		require.NoError(t, err)

		w := serve(r, "Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"actor":"admin:7","seller_id":0}`, w.Body.String())
	})

	t.Run("알 수 없는 역할", func(t *testing.T) {
		token, err := manager.GenerateToken("7", "guest")
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, serve(r, "Authorization", "Bearer "+token).Code)
	})

	t.Run("다른 키로 서명", func(t *testing.T) {
		token, err := jwt.NewManager("other", time.Hour).GenerateToken("7", jwt.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, serve(r, "Authorization", "Bearer "+token).Code)
	})
}

func TestInternalAPIKey(t *testing.T) {
	r := newTestRouter(InternalAPIKey("s3cret"))

	assert.Equal(t, http.StatusUnauthorized, serve(r, "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "X-API-Key", "wrong").Code)

	w := serve(r, "X-API-Key", "s3cret")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"actor":"internal","seller_id":0}`, w.Body.String())

	// 키 미설정 시 전부 거부
	assert.Equal(t, http.StatusUnauthorized, serve(newTestRouter(InternalAPIKey("")), "X-API-Key", "").Code)
}

func TestRateLimitPerActor_Disabled(t *testing.T) {
	r := newTestRouter(RateLimitPerActor(nil, 1))
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, "", "").Code)
	}
}
