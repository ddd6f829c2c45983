package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/damoang/payout-ledger/internal/common"
	"github.com/gin-gonic/gin"
)

const ctxInternal = "internal"

// InternalAPIKey authenticates service-to-service calls (order events, profile sync).
// Checks the X-API-Key header against the configured key. An empty key rejects every call.
func InternalAPIKey(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "API key required", nil)
			c.Abort()
			return
		}
		if expected == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid API key", nil)
			c.Abort()
			return
		}

		c.Set(ctxInternal, true)
		c.Next()
	}
}
