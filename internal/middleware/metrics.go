package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"budgetex/internal/metrics"
)

// Metrics records the latency of every request against its route pattern,
// so /snapshots/:id is one series however many ids are requested.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
