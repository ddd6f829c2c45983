package middleware

import (
	"time"

	"github.com/damoang/payout-ledger/internal/common"
	"github.com/damoang/payout-ledger/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestLogger returns a gin middleware that logs every request with structured fields
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()[:8]
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log := logger.WithRequestID(requestID)
		event := log.Info()
		if status >= 500 {
			event = log.Error()
		} else if status >= 400 {
			event = log.Warn()
		}

		if id := c.Param("id"); id != "" {
			event = event.Str("settlement_id", id)
		}
		if code := c.GetString(common.ErrorCodeKey); code != "" {
			event = event.Str("error_code", code)
		}
		event.
			Str("method", c.Request.Method).
			Str("route", c.FullPath()).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("actor", Actor(c)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
