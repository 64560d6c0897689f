package middleware

import (
	"strconv"

	"krushak/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics counts requests by method, matched route and status.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.IncHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()))
	}
}
