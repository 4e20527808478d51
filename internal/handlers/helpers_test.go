package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-authgate/oauth1gate/internal/auth"
	"github.com/go-authgate/oauth1gate/internal/config"
	"github.com/go-authgate/oauth1gate/internal/metrics"
	"github.com/go-authgate/oauth1gate/internal/middleware"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/services"
	"github.com/go-authgate/oauth1gate/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store     *store.Store
	users     *services.UserService
	tokens    *services.TokenService
	resources *services.ResourceService
	registry  *services.ClientRegistry
	audit     *services.AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{TokenLength: 40, SecretLength: 40, VerifierLength: 20}
	s, err := store.New("sqlite", ":memory:", cfg)
	require.NoError(t, err)

	audit := services.NewAuditService(s, true, 100)
	t.Cleanup(func() {
		_ = audit.Shutdown(context.Background())
		_ = s.Close(context.Background())
	})

	recorder := metrics.NewNoopMetrics()
	registry := services.NewClientRegistry(s)
	return &testEnv{
		store:     s,
		users:     services.NewUserService(s, auth.NewLocalAuthProvider(s), audit, recorder),
		tokens:    services.NewTokenService(s, cfg, registry, audit, recorder),
		resources: services.NewResourceService(s),
		registry:  registry,
		audit:     audit,
	}
}

func (env *testEnv) createUser(t *testing.T, name string, status models.UserStatus) *models.User {
	t.Helper()
	user, err := env.users.CreateUser(context.Background(), name, name+"@example.com", "correct-horse-battery", status)
	require.NoError(t, err)
	return user
}

// newRouter returns a session-enabled router. Routes registered on the
// returned group run behind RequireAuth; /test-login/:id signs a user in.
func (env *testEnv) newRouter() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.GET("/test-login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(middleware.SessionUserID, c.Param("id"))
		_ = session.Save()
		c.Status(http.StatusOK)
	})
	return r, r.Group("", middleware.RequireAuth(env.users))
}

func loginCookies(t *testing.T, r http.Handler, userID string) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test-login/"+userID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Result().Cookies()
}

func serve(r http.Handler, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func formRequest(method, target string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func (env *testEnv) createClient(t *testing.T, callbackURL string, perms models.PermissionSet) *models.ClientApplication {
	t.Helper()
	client, err := store.NewClientApplication("Test App", callbackURL, perms, "")
	require.NoError(t, err)
	require.NoError(t, env.store.CreateClient(context.Background(), client))
	return client
}

// secretProof verifies when the given secrets match exactly.
type secretProof struct {
	key, consumerSecret, tokenSecret string
}

func (p secretProof) ConsumerKey() string { return p.key }

func (p secretProof) Verify(consumerSecret, tokenSecret string) bool {
	return p.consumerSecret == consumerSecret && p.tokenSecret == tokenSecret
}

func (env *testEnv) requestToken(t *testing.T, client *models.ClientApplication, callback string) *models.OAuthToken {
	t.Helper()
	token, err := env.tokens.IssueRequestToken(context.Background(),
		secretProof{key: client.Key, consumerSecret: client.Secret}, callback, 0)
	require.NoError(t, err)
	return token
}
