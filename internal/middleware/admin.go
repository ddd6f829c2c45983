package middleware

import (
	"net/http"

	"github.com/damoang/payout-ledger/internal/common"
	"github.com/gin-gonic/gin"
)

// RequireAdmin checks that the authenticated user carries the admin role
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			common.ErrorResponse(c, http.StatusForbidden, "관리자 권한이 필요합니다", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
