package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/protodeck/protodeck-backend/internal/metrics"
)

// Metrics records request counts and latencies labelled by route template,
// so /projects/:id stays a single series.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
