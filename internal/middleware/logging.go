package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"budgetex/internal/logger"
	"budgetex/internal/uuid"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
)

// RequestLogging logs each request with its request ID, route, status and
// latency. A request ID sent by the client is reused. Health and metrics
// probes are logged at debug level.
func RequestLogging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if !uuid.IsValid(requestID) {
			requestID = uuid.New()
		}
		c.Set(requestIDKey, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)

		c.Next()

		fields := []interface{}{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		switch c.FullPath() {
		case "/api/health", "/metrics":
			logger.Get().Debugw("request", fields...)
		default:
			logger.Get().Infow("request", fields...)
		}
	}
}
