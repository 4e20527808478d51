package middleware

import (
	"errors"
	"net/http"

	"github.com/go-authgate/oauth1gate/internal/core"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/oauth1"
	"github.com/go-authgate/oauth1gate/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const oauthRealm = `OAuth realm=""`

// SignedRequest parses the OAuth protocol parameters of the request and
// enforces the timestamp window and nonce uniqueness. The signature itself
// is verified later against the secrets of the consumer and token.
func SignedRequest(validator *oauth1.Validator, m core.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := oauth1.Parse(c.Request)
		if err != nil {
			m.RecordSignatureFailure(oauth1.FailureReason(err))
			abortOAuth(c, http.StatusBadRequest, err.Error())
			return
		}

		if err := validator.Check(c.Request.Context(), req); err != nil {
			if !errors.Is(err, oauth1.ErrTimestampOutOfWindow) && !errors.Is(err, oauth1.ErrNonceReused) {
				zap.S().Errorw("nonce check failed", "consumer_key", req.ConsumerKeyValue, "error", err)
				abortOAuth(c, http.StatusServiceUnavailable, "Service temporarily unavailable")
				return
			}
			m.RecordSignatureFailure(oauth1.FailureReason(err))
			abortOAuth(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(signedRequestKey, req)
		c.Next()
	}
}

// RequireAccessToken resolves the signed request to a principal through
// the access guard. Use after SignedRequest.
func RequireAccessToken(guard *services.AccessGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := GetSignedRequest(c)
		if req == nil || req.Token == "" {
			abortOAuth(c, http.StatusUnauthorized, "Access token required")
			return
		}

		grant, err := guard.AuthorizeRequest(c.Request.Context(), req.Token, req)
		switch {
		case err == nil:
		case errors.Is(err, services.ErrForbidden):
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Your account cannot use the API",
			})
			return
		case errors.Is(err, services.ErrUnauthorized):
			abortOAuth(c, http.StatusUnauthorized, "Invalid or expired access token")
			return
		default:
			zap.S().Errorw("access guard failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "server_error",
				"message": "Failed to verify access token",
			})
			return
		}

		c.Set(grantKey, grant)
		setUser(c, grant.Principal)
		c.Next()
	}
}

// RequirePermission rejects grants that lack perm. Use after
// RequireAccessToken.
func RequirePermission(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		grant := GetGrant(c)
		if grant == nil || !grant.Permissions.Has(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "insufficient_permissions",
				"message": "This request needs the " + string(perm) + " permission",
			})
			return
		}
		c.Next()
	}
}

func abortOAuth(c *gin.Context, status int, message string) {
	c.Header("WWW-Authenticate", oauthRealm)
	c.String(status, message)
	c.Abort()
}
