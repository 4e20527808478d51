package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-authgate/oauth1gate/internal/cache"
	"github.com/go-authgate/oauth1gate/internal/metrics"
	"github.com/go-authgate/oauth1gate/internal/middleware"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/oauth1"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTokenRouter(t *testing.T) (*testEnv, *gin.Engine) {
	t.Helper()
	env := newTestEnv(t)
	h := NewTokenHandler(env.tokens)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	validator := oauth1.NewValidator(cache.NewMemoryCache[int64](), 5*time.Minute, 10*time.Minute)
	signed := middleware.SignedRequest(validator, metrics.NewNoopMetrics())
	r.POST("/oauth/request_token", signed, h.RequestToken)
	r.POST("/oauth/access_token", signed, h.AccessToken)
	return env, r
}

func signedPost(t *testing.T, r http.Handler, target string, s oauth1.Signer, extra url.Values) (int, url.Values) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, nil)
	require.NoError(t, s.Sign(req, extra))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		assert.Equal(t, `OAuth realm=""`, w.Header().Get("WWW-Authenticate"))
		return w.Code, nil
	}
	assert.Equal(t, formContentType, w.Header().Get("Content-Type"))
	values, err := url.ParseQuery(w.Body.String())
	require.NoError(t, err)
	return w.Code, values
}

func TestRequestTokenEndpoint(t *testing.T) {
	env, r := setupTokenRouter(t)
	client := env.createClient(t, "", models.FullPermissionSet())
	signer := oauth1.Signer{ConsumerKey: client.Key, ConsumerSecret: client.Secret}

	code, values := signedPost(t, r, "/oauth/request_token", signer, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, values.Get("oauth_token"), 40)
	assert.Len(t, values.Get("oauth_token_secret"), 40)
	assert.False(t, values.Has("oauth_callback_confirmed"))

	code, values = signedPost(t, r, "/oauth/request_token", signer, url.Values{"oauth_callback": {"oob"}})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "true", values.Get("oauth_callback_confirmed"))

	code, _ = signedPost(t, r, "/oauth/request_token", signer, url.Values{"oauth_callback": {"ftp://x"}})
	assert.Equal(t, http.StatusBadRequest, code)

	bad := signer
	bad.ConsumerKey = "unknown"
	code, _ = signedPost(t, r, "/oauth/request_token", bad, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	plaintext := signer
	plaintext.Method = oauth1.MethodPlaintext
	code, _ = signedPost(t, r, "/oauth/request_token", plaintext, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestAccessTokenEndpoint(t *testing.T) {
	env, r := setupTokenRouter(t)
	user := env.createUser(t, "mapper", models.UserStatusConfirmed)
	client := env.createClient(t, "", models.FullPermissionSet())
	request := env.requestToken(t, client, models.CallbackOutOfBand)

	signer := oauth1.Signer{
		ConsumerKey:    client.Key,
		ConsumerSecret: client.Secret,
		Token:          request.Token,
		TokenSecret:    request.Secret,
	}

	// Not yet authorized.
	code, _ := signedPost(t, r, "/oauth/access_token", signer, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	result, err := env.tokens.Authorize(context.Background(), request.Token, user, models.FullPermissionSet(), "")
	require.NoError(t, err)

	code, _ = signedPost(t, r, "/oauth/access_token", signer, url.Values{"oauth_verifier": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, code)

	noToken := signer
	noToken.Token, noToken.TokenSecret = "", ""
	code, _ = signedPost(t, r, "/oauth/access_token", noToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, values := signedPost(t, r, "/oauth/access_token", signer,
		url.Values{"oauth_verifier": {result.Token.Verifier}})
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, values.Get("oauth_token"))
	assert.NotEqual(t, request.Token, values.Get("oauth_token"))

	code, _ = signedPost(t, r, "/oauth/access_token", signer,
		url.Values{"oauth_verifier": {result.Token.Verifier}})
	assert.Equal(t, http.StatusUnauthorized, code)
}
