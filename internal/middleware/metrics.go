package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/colegiosys/colegio-api/internal/service"
)

// Metrics observes every handled request. The route template keeps label
// cardinality bounded; requests that match no route collapse into a single
// series instead of leaking raw URLs into the registry. The scrape and
// health endpoints are not observed.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}

		raw := c.Request.URL.Path
		if raw == "/metrics" || raw == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
