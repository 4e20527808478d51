package middleware

import (
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/oauth1"
	"github.com/go-authgate/oauth1gate/internal/services"

	"github.com/gin-gonic/gin"
)

// Keys under which middleware stores request state in the gin context.
// userKey matches what models.GetUserFromContext looks up.
const (
	userKey          = "user"
	signedRequestKey = "oauth_request"
	grantKey         = "oauth_grant"
)

// GetUser returns the browser-session or access-token user.
func GetUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// GetSignedRequest returns the request parsed by SignedRequest.
func GetSignedRequest(c *gin.Context) *oauth1.Request {
	if v, ok := c.Get(signedRequestKey); ok {
		if req, ok := v.(*oauth1.Request); ok {
			return req
		}
	}
	return nil
}

// GetGrant returns the grant established by RequireAccessToken.
func GetGrant(c *gin.Context) *services.Grant {
	if v, ok := c.Get(grantKey); ok {
		if grant, ok := v.(*services.Grant); ok {
			return grant
		}
	}
	return nil
}
