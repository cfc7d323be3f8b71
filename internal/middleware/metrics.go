package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/pkg/metrics"
)

// Metrics records the request count and latency for each handled request,
// labelled by method, route template, and status. Unmatched requests fall
// back to the raw URL path so 404s stay visible.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		metrics.HTTPRequests.WithLabelValues(method, path, status).Inc()
		metrics.APILatency.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
	}
}
