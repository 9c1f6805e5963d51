package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codyseavey/card-vault/internal/metrics"
)

// metricsMiddleware records request counts and latency per route. The
// route template (not the raw URL) is used as the path label to keep
// cardinality bounded.
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
