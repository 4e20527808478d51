package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-authgate/oauth1gate/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	ts := newTestServices(t)
	alice := ts.createUser(t, "alice", models.UserStatusActive)
	moderator := ts.createUser(t, "moderator", models.UserStatusConfirmed)

	r := setupSessionRouter()
	r.GET("/private", RequireAuth(ts.users), func(c *gin.Context) {
		c.String(http.StatusOK, GetUser(c).DisplayName+":"+models.GetUserIDFromContext(c.Request.Context()))
	})
	get := func(cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/private?a=1&b=2", nil)
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("no session redirects with encoded return url", func(t *testing.T) {
		w := get(nil)
		assert.Equal(t, http.StatusFound, w.Code)
		location, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/login", location.Path)
		assert.Equal(t, "/private?a=1&b=2", location.Query().Get("redirect"))
	})

	t.Run("signed in user is loaded", func(t *testing.T) {
		w := get(login(t, alice.ID))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice:"+alice.ID, w.Body.String())
	})

	t.Run("unknown user is signed out", func(t *testing.T) {
		w := get(login(t, "no-such-user"))
		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("suspended user is signed out", func(t *testing.T) {
		cookies := login(t, alice.ID)
		_, err := ts.users.Suspend(t.Context(), alice.ID, moderator)
		require.NoError(t, err)

		w := get(cookies)
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), "/login")
	})
}

func TestRequireAdmin(t *testing.T) {
	ts := newTestServices(t)
	alice := ts.createUser(t, "alice", models.UserStatusActive)
	admin, err := ts.users.GetUserByDisplayName(t.Context(), "admin")
	require.NoError(t, err)

	r := setupSessionRouter()
	r.GET("/admin", RequireAuth(ts.users), RequireAdmin(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	tests := []struct {
		name   string
		userID string
		want   int
	}{
		{"admin", admin.ID, http.StatusOK},
		{"regular user", alice.ID, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			for _, cookie := range login(t, tt.userID) {
				req.AddCookie(cookie)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
