package util

import (
	"context"

	"github.com/gin-gonic/gin"
)

type clientIPKey struct{}

// IPMiddleware copies gin's client IP (which honours trusted proxy headers)
// onto the request context, where services read it for audit entries.
func IPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(SetIPContext(c.Request.Context(), c.ClientIP()))
		c.Next()
	}
}

// SetIPContext returns ctx carrying ip. An empty ip leaves ctx unchanged.
func SetIPContext(ctx context.Context, ip string) context.Context {
	if ip == "" {
		return ctx
	}
	return context.WithValue(ctx, clientIPKey{}, ip)
}

// GetIPFromContext returns the client IP recorded on ctx, or "".
func GetIPFromContext(ctx context.Context) string {
	if c, ok := ctx.(*gin.Context); ok {
		return c.ClientIP()
	}
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}
