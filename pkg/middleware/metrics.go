package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"songdrop/pkg/metrics"
)

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		metrics.HTTPRequestDuration.
			WithLabelValues(routeOf(c), c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
