package config

import (
	"strconv"
	"time"

	"cutine-backend/metrics"

	"github.com/gin-gonic/gin"
)

const slowRequest = 200 * time.Millisecond

func PerformanceLogger(log *Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		metrics.RequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).
			Observe(latency.Seconds())

		log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", latency,
		)

		if latency > slowRequest {
			log.Warn("slow request",
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
				"latency", latency,
			)
		}
	}
}
