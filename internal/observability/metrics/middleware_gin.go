package metrics

import (
	"time"

	"github.com/gin-gonic/gin"
)

// GinMiddleware instruments every handled request. Unmatched routes are
// labelled "unmatched" to keep the route label low-cardinality.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
