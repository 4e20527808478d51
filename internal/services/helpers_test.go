package services

import (
	"context"
	"testing"

	"github.com/go-authgate/oauth1gate/internal/auth"
	"github.com/go-authgate/oauth1gate/internal/config"
	"github.com/go-authgate/oauth1gate/internal/metrics"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/store"
	"github.com/go-authgate/oauth1gate/internal/util"

	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse-battery" //nolint:gosec

// testProof is a SignatureProof whose signature is valid exactly for the
// secrets it was built with.
type testProof struct {
	key            string
	consumerSecret string
	tokenSecret    string
}

func (p testProof) ConsumerKey() string { return p.key }

func (p testProof) Verify(consumerSecret, tokenSecret string) bool {
	return util.SecureCompare(p.consumerSecret, consumerSecret) && p.tokenSecret == tokenSecret
}

// consumerProof signs as client without a token.
func consumerProof(client *models.ClientApplication) testProof {
	return testProof{key: client.Key, consumerSecret: client.Secret}
}

// tokenProof signs as client with token's secret.
func tokenProof(client *models.ClientApplication, token *models.OAuthToken) testProof {
	return testProof{key: client.Key, consumerSecret: client.Secret, tokenSecret: token.Secret}
}

func testConfig() *config.Config {
	return &config.Config{
		TokenLength:    40,
		SecretLength:   40,
		VerifierLength: 20,
	}
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New("sqlite", ":memory:", testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

type testEnv struct {
	store    *store.Store
	registry *ClientRegistry
	tokens   *TokenService
	guard    *AccessGuard
	users    *UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := setupTestStore(t)
	recorder := metrics.NewNoopMetrics()
	audit := NewAuditService(s, false, 0)
	registry := NewClientRegistry(s)
	return &testEnv{
		store:    s,
		registry: registry,
		tokens:   NewTokenService(s, testConfig(), registry, audit, recorder),
		guard:    NewAccessGuard(s, audit, recorder),
		users:    NewUserService(s, auth.NewLocalAuthProvider(s), audit, recorder),
	}
}

func (e *testEnv) createClient(
	t *testing.T,
	callbackURL string,
	perms ...models.Permission,
) *models.ClientApplication {
	t.Helper()
	client, err := store.NewClientApplication("Test App", callbackURL, models.NewPermissionSet(perms...), "")
	require.NoError(t, err)
	require.NoError(t, e.store.CreateClient(context.Background(), client))
	return client
}

func (e *testEnv) createUser(t *testing.T, name string, status models.UserStatus) *models.User {
	t.Helper()
	user, err := e.users.CreateUser(context.Background(), name, name+"@example.com", testPassword, status)
	require.NoError(t, err)
	return user
}

// defaultClient mirrors a typical web client: read_prefs, write_api, read_gpx.
func (e *testEnv) defaultClient(t *testing.T, callbackURL string) *models.ClientApplication {
	return e.createClient(t, callbackURL, models.PermReadPrefs, models.PermWriteAPI, models.PermReadGPX)
}

// issueAndAuthorize walks a token to AUTHORIZED and returns it with the
// authorization result.
func (e *testEnv) issueAndAuthorize(
	t *testing.T,
	client *models.ClientApplication,
	user *models.User,
	callback string,
	granted models.PermissionSet,
) *AuthorizationResult {
	t.Helper()
	ctx := context.Background()
	token, err := e.tokens.IssueRequestToken(ctx, consumerProof(client), callback, 0)
	require.NoError(t, err)
	result, err := e.tokens.Authorize(ctx, token.Token, user, granted, "")
	require.NoError(t, err)
	return result
}

// activeAccessToken walks a token all the way to an access token.
func (e *testEnv) activeAccessToken(
	t *testing.T,
	client *models.ClientApplication,
	user *models.User,
	granted models.PermissionSet,
) *models.OAuthToken {
	t.Helper()
	result := e.issueAndAuthorize(t, client, user, models.CallbackOutOfBand, granted)
	access, err := e.tokens.ExchangeForAccess(context.Background(),
		result.Token.Token, result.Token.Verifier, tokenProof(client, result.Token))
	require.NoError(t, err)
	return access
}
