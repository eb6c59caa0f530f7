package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lifelog-backend/internal/observability"
)

// unmatchedRoute is the route label for requests gin could not route.
const unmatchedRoute = "unmatched"

// Metrics records request count, latency and in-flight gauge per route template.
// Scrapes of the metrics endpoint itself are not counted.
func Metrics(m *observability.Metrics, scrapePath string) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if scrapePath != "" && c.Request.URL.Path == scrapePath {
			c.Next()
			return
		}
		m.ApiInflightInc()
		defer m.ApiInflightDec()
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
