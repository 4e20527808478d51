package models

import (
	"context"

	"github.com/gin-gonic/gin"
)

type contextKey string

const userContextKey contextKey = "user"

// SetUserContext returns a copy of ctx carrying user.
func SetUserContext(ctx context.Context, user *User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the user from either the Gin context's "user"
// key (set by RequireAuth) or a plain context built with SetUserContext.
func GetUserFromContext(ctx context.Context) *User {
	if ginCtx, ok := ctx.(*gin.Context); ok {
		if userVal, exists := ginCtx.Get("user"); exists {
			if user, ok := userVal.(*User); ok {
				return user
			}
		}
		if ginCtx.Request == nil {
			return nil
		}
		ctx = ginCtx.Request.Context()
	}

	if user, ok := ctx.Value(userContextKey).(*User); ok {
		return user
	}
	return nil
}

// GetDisplayNameFromContext returns the display name of the user in ctx,
// or the empty string.
func GetDisplayNameFromContext(ctx context.Context) string {
	if user := GetUserFromContext(ctx); user != nil {
		return user.DisplayName
	}
	return ""
}

// GetUserIDFromContext returns the ID of the user in ctx, or the empty string.
func GetUserIDFromContext(ctx context.Context) string {
	if user := GetUserFromContext(ctx); user != nil {
		return user.ID
	}
	return ""
}
