package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-authgate/oauth1gate/internal/auth"
	"github.com/go-authgate/oauth1gate/internal/config"
	"github.com/go-authgate/oauth1gate/internal/metrics"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/services"
	"github.com/go-authgate/oauth1gate/internal/store"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	store  *store.Store
	users  *services.UserService
	tokens *services.TokenService
	guard  *services.AccessGuard
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	cfg := &config.Config{TokenLength: 40, SecretLength: 40, VerifierLength: 20}
	s, err := store.New("sqlite", ":memory:", cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	recorder := metrics.NewNoopMetrics()
	registry := services.NewClientRegistry(s)
	return &testServices{
		store:  s,
		users:  services.NewUserService(s, auth.NewLocalAuthProvider(s), nil, recorder),
		tokens: services.NewTokenService(s, cfg, registry, nil, recorder),
		guard:  services.NewAccessGuard(s, nil, recorder),
	}
}

func (ts *testServices) createUser(t *testing.T, name string, status models.UserStatus) *models.User {
	t.Helper()
	user, err := ts.users.CreateUser(context.Background(), name, name+"@example.com", "correct-horse-battery", status)
	require.NoError(t, err)
	return user
}

func (ts *testServices) createClient(t *testing.T) *models.ClientApplication {
	t.Helper()
	client, err := store.NewClientApplication("Test App", "",
		models.NewPermissionSet(models.PermReadPrefs, models.PermWritePrefs), "")
	require.NoError(t, err)
	require.NoError(t, ts.store.CreateClient(context.Background(), client))
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

// accessToken walks a 1.0 token through approval and exchange.
func (ts *testServices) accessToken(
	t *testing.T,
	client *models.ClientApplication,
	user *models.User,
	perms models.PermissionSet,
) *models.OAuthToken {
	t.Helper()
	ctx := context.Background()
	request, err := ts.tokens.IssueRequestToken(ctx, secretProof{key: client.Key, consumerSecret: client.Secret}, "", 0)
	require.NoError(t, err)
	_, err = ts.tokens.Authorize(ctx, request.Token, user, perms, "")
	require.NoError(t, err)
	access, err := ts.tokens.ExchangeForAccess(ctx, request.Token, "",
		secretProof{key: client.Key, consumerSecret: client.Secret, tokenSecret: request.Secret})
	require.NoError(t, err)
	return access
}

func setupSessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	return r
}

// login returns the session cookie of a router-side login for userID.
func login(t *testing.T, userID string) []*http.Cookie {
	t.Helper()
	r := setupSessionRouter()
	r.GET("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(SessionUserID, userID)
		require.NoError(t, session.Save())
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	return w.Result().Cookies()
}
