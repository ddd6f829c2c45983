package ginutil

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt extracts an integer from query parameters, clamped to [min, max].
// Missing or malformed values yield defaultValue.
func QueryInt(c *gin.Context, key string, defaultValue, min, max int) int {
	valueStr := c.Query(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// QueryUint64 extracts an unsigned ID from the first non-empty query key
func QueryUint64(c *gin.Context, keys ...string) (uint64, bool, error) {
	for _, key := range keys {
		if v := c.Query(key); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			return id, true, err
		}
	}
	return 0, false, nil
}

// ParamUint64 extracts an unsigned ID from path parameters
func ParamUint64(c *gin.Context, key string) (uint64, error) {
	return strconv.ParseUint(c.Param(key), 10, 64)
}
