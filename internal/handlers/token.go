package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-authgate/oauth1gate/internal/middleware"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const formContentType = "application/x-www-form-urlencoded"

// TokenHandler serves the consumer-facing OAuth endpoints. Both run after
// middleware.SignedRequest, so the protocol parameters are already parsed
// and the timestamp and nonce checked.
type TokenHandler struct {
	tokenService *services.TokenService
}

func NewTokenHandler(ts *services.TokenService) *TokenHandler {
	return &TokenHandler{tokenService: ts}
}

// RequestToken handles /oauth/request_token. The request is signed with
// the consumer secret alone.
func (h *TokenHandler) RequestToken(c *gin.Context) {
	req := middleware.GetSignedRequest(c)

	token, err := h.tokenService.IssueRequestToken(c.Request.Context(), req, req.Callback, 0)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrInvalidClient):
		oauthError(c, http.StatusUnauthorized, "Invalid consumer key or signature")
		return
	case errors.Is(err, services.ErrInvalidCallback):
		oauthError(c, http.StatusBadRequest, "Invalid oauth_callback")
		return
	default:
		zap.S().Errorw("issue request token failed", "consumer_key", req.ConsumerKeyValue, "error", err)
		c.String(http.StatusInternalServerError, "Failed to issue request token")
		return
	}

	values := url.Values{
		"oauth_token":        {token.Token},
		"oauth_token_secret": {token.Secret},
	}
	if token.Variant == models.Variant10a {
		values.Set("oauth_callback_confirmed", "true")
	}
	c.Data(http.StatusOK, formContentType, []byte(values.Encode()))
}

// AccessToken handles /oauth/access_token. The request is signed with the
// consumer secret and the request token secret.
func (h *TokenHandler) AccessToken(c *gin.Context) {
	req := middleware.GetSignedRequest(c)
	if req.Token == "" {
		oauthError(c, http.StatusUnauthorized, "Request token required")
		return
	}

	access, err := h.tokenService.ExchangeForAccess(c.Request.Context(), req.Token, req.Verifier, req)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrInvalidTokenState),
		errors.Is(err, services.ErrTokenNotFound),
		errors.Is(err, services.ErrInvalidClient):
		oauthError(c, http.StatusUnauthorized, "Invalid request token, verifier or signature")
		return
	default:
		zap.S().Errorw("token exchange failed", "consumer_key", req.ConsumerKeyValue, "error", err)
		c.String(http.StatusInternalServerError, "Failed to issue access token")
		return
	}

	values := url.Values{
		"oauth_token":        {access.Token},
		"oauth_token_secret": {access.Secret},
	}
	c.Data(http.StatusOK, formContentType, []byte(values.Encode()))
}

func oauthError(c *gin.Context, status int, message string) {
	c.Header("WWW-Authenticate", `OAuth realm=""`)
	c.String(status, message)
}
