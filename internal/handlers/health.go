package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker is anything that can report whether it is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthCheck reports the database and the nonce cache. Either being down
// makes the service unhealthy since signed requests cannot be checked.
func HealthCheck(db, nonces HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		status := http.StatusOK
		body := gin.H{
			"status":   "healthy",
			"database": "connected",
			"cache":    "connected",
		}

		if err := db.Health(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["database"] = "disconnected"
		}
		if err := nonces.Health(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["cache"] = "disconnected"
		}

		c.JSON(status, body)
	}
}
