package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/damoang/payout-ledger/internal/common"
	"github.com/damoang/payout-ledger/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// 1분 슬라이딩 윈도우. {허용 여부, 남은 횟수}
var rateLimitScript = redis.NewScript(`
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
    return {0, 0}
end
redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
redis.call('PEXPIRE', key, window + 1000)
return {1, limit - count - 1}
`)

// RateLimitPerActor limits state-changing admin calls (pay/hold/release) per actor.
// A nil client or a non-positive limit disables the limiter; redis errors fail open.
func RateLimitPerActor(redisClient *redis.Client, requestsPerMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if redisClient == nil || requestsPerMinute <= 0 {
			c.Next()
			return
		}

		key := "payout:ratelimit:" + Actor(c)
		now := time.Now().UnixMilli()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 200*time.Millisecond)
		defer cancel()
		result, err := rateLimitScript.Run(ctx, redisClient, []string{key},
			requestsPerMinute, int64(time.Minute/time.Millisecond), now,
		).Int64Slice()
		if err != nil {
			logger.GetLogger().Warn().Err(err).Str("key", key).Msg("rate limit check failed")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(requestsPerMinute))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result[1]))

		if result[0] != 1 {
			c.Header("Retry-After", "60")
			common.CodedErrorResponse(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}
