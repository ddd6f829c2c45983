package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/damoang/payout-ledger/internal/common"
	"github.com/damoang/payout-ledger/pkg/jwt"
	"github.com/gin-gonic/gin"
)

// context keys
const (
	ctxUserID = "userID"
	ctxRole   = "role"
)

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Missing authorization header", nil)
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, http.StatusUnauthorized, "Token expired", err)
			} else {
				common.ErrorResponse(c, http.StatusUnauthorized, "Invalid token", err)
			}
			c.Abort()
			return
		}

		switch claims.Role {
		case jwt.RoleAdmin, jwt.RoleSeller:
		default:
			common.ErrorResponse(c, http.StatusForbidden, "Unknown role", nil)
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetRole extracts role from context
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// IsAdmin reports whether the caller authenticated as an admin
func IsAdmin(c *gin.Context) bool {
	return GetRole(c) == jwt.RoleAdmin
}

// GetSellerID seller 토큰의 user_id를 판매자 ID로 해석. seller가 아니면 0.
func GetSellerID(c *gin.Context) uint64 {
	if GetRole(c) != jwt.RoleSeller {
		return 0
	}
	id, err := strconv.ParseUint(GetUserID(c), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Actor 상태 전이 기록용 주체 문자열 (예: "admin:42")
func Actor(c *gin.Context) string {
	if id := GetUserID(c); id != "" {
		return GetRole(c) + ":" + id
	}
	if c.GetBool(ctxInternal) {
		return "internal"
	}
	return "anonymous"
}
