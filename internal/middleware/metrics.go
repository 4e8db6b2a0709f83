package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/barstore/internal/metrics"
)

// Metrics counts requests per matched route and status code. Unmatched
// routes are reported as "unmatched" to keep label cardinality bounded.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequests.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
