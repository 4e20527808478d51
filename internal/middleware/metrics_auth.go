package middleware

import (
	"net/http"
	"strings"

	"github.com/go-authgate/oauth1gate/internal/util"

	"github.com/gin-gonic/gin"
)

// MetricsAuthMiddleware protects /metrics with a static Bearer token.
// An empty token leaves the endpoint open.
func MetricsAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		provided, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok {
			abortMetrics(c, "Bearer token required")
			return
		}
		if !util.SecureCompare(provided, token) {
			abortMetrics(c, "Invalid token")
			return
		}

		c.Next()
	}
}

func abortMetrics(c *gin.Context, message string) {
	c.Header("WWW-Authenticate", `Bearer realm="Metrics"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "unauthorized",
		"message": message,
	})
}
