package middleware

import (
	"strconv"
	"time"

	"repoproxy/internal/instrumentation"

	"github.com/gin-gonic/gin"
)

func mapStatus(status int) string {
	switch {
	case status >= 100 && status < 200:
		return "1xx"
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	default:
		return strconv.Itoa(status)
	}
}

func metricsSkipper(c *gin.Context) bool {
	switch c.Request.URL.Path {
	case "/metrics", "/metrics/", "/health", "/health/":
		return true
	}
	return false
}

// Metrics records request duration by status class, method and matched route
func Metrics(metrics *instrumentation.Metrics) gin.HandlerFunc {
	if metrics == nil {
		panic("metrics can not be nil")
	}
	return func(c *gin.Context) {
		if metricsSkipper(c) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HttpStatusHistogram.
			WithLabelValues(mapStatus(c.Writer.Status()), c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
