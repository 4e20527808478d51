package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-authgate/oauth1gate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientPagesAndRevoke(t *testing.T) {
	env := newTestEnv(t)
	h := NewClientHandler(env.tokens)
	r, authed := env.newRouter()
	authed.GET("/", h.Home)
	authed.GET("/user/:display_name/oauth_clients", h.ShowClientsPage)
	authed.POST("/oauth/revoke", h.Revoke)

	ctx := context.Background()
	owner := env.createUser(t, "mapper", models.UserStatusConfirmed)
	other := env.createUser(t, "surveyor", models.UserStatusConfirmed)
	ownerCookies := loginCookies(t, r, owner.ID)
	otherCookies := loginCookies(t, r, other.ID)

	client := env.createClient(t, "", models.NewPermissionSet(models.PermReadPrefs))
	request := env.requestToken(t, client, "")
	_, err := env.tokens.Authorize(ctx, request.Token, owner, models.FullPermissionSet(), "")
	require.NoError(t, err)
	access, err := env.tokens.ExchangeForAccess(ctx, request.Token, "",
		secretProof{key: client.Key, consumerSecret: client.Secret, tokenSecret: request.Secret})
	require.NoError(t, err)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil), ownerCookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/user/mapper/oauth_clients", w.Header().Get("Location"))

	w = serve(r, httptest.NewRequest(http.MethodGet, "/user/mapper/oauth_clients", nil), ownerCookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Test App")
	assert.Contains(t, w.Body.String(), access.Token)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/user/mapper/oauth_clients", nil), otherCookies)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, formRequest(http.MethodPost, "/oauth/revoke", url.Values{"token": {access.Token}}), otherCookies)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(r, formRequest(http.MethodPost, "/oauth/revoke", url.Values{"token": {"missing"}}), ownerCookies)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, formRequest(http.MethodPost, "/oauth/revoke", url.Values{"token": {access.Token}}), ownerCookies)
	require.Equal(t, http.StatusFound, w.Code)

	w = serve(r, httptest.NewRequest(http.MethodGet, "/user/mapper/oauth_clients", nil), w.Result().Cookies())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Access has been revoked.")
	assert.Contains(t, w.Body.String(), "You have not authorized any applications yet.")

	revoked, err := env.tokens.Find(ctx, access.Token)
	require.NoError(t, err)
	assert.Equal(t, models.StateRevoked, revoked.State())
}
