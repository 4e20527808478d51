package metrics

import (
	"strconv"
	"time"

	"github.com/go-authgate/oauth1gate/internal/core"

	"github.com/gin-gonic/gin"
)

const unmatchedRoute = "unmatched"

// unobservedRoutes are scraped or polled often enough to drown real traffic.
var unobservedRoutes = map[string]bool{
	"/metrics": true,
	"/health":  true,
}

// HTTPMetricsMiddleware counts and times requests by route pattern, so token
// and display-name path segments never become label values. It is a no-op
// unless m is a *Metrics.
func HTTPMetricsMiddleware(m core.Recorder) gin.HandlerFunc {
	metrics, ok := m.(*Metrics)
	if !ok {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		if unobservedRoutes[c.Request.URL.Path] {
			c.Next()
			return
		}

		metrics.HTTPRequestsInFlight.Inc()
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)
		metrics.HTTPRequestsInFlight.Dec()

		route := routeLabel(c.FullPath())
		metrics.HTTPRequestsTotal.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Inc()
		metrics.HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route).
			Observe(elapsed.Seconds())
	}
}

func routeLabel(fullPath string) string {
	if fullPath == "" {
		return unmatchedRoute
	}
	return fullPath
}
