package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-authgate/oauth1gate/internal/config"
	"github.com/go-authgate/oauth1gate/internal/core"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/store"
	"github.com/go-authgate/oauth1gate/internal/util"

	"go.uber.org/zap"
)

// Token exchange metric results.
const (
	exchangeSuccess      = "success"
	exchangeBadVerifier  = "bad_verifier"
	exchangeBadSignature = "bad_signature"
	exchangeInvalidState = "invalid_state"
	exchangeError        = "error"
)

// AuthorizationResult is what an approved request token leads to.
type AuthorizationResult struct {
	Token  *models.OAuthToken
	Client *models.ClientApplication

	// RedirectURL is empty when the verifier must be shown to the user.
	RedirectURL string
}

// AuthorizedClient groups a user's active access tokens by client.
type AuthorizedClient struct {
	Client models.ClientApplication
	Tokens []models.OAuthToken
}

// TokenService drives the request/access token state machine. Every state
// change is a read-modify-write of the whole record guarded by its version.
type TokenService struct {
	store        *store.Store
	config       *config.Config
	registry     *ClientRegistry
	auditService *AuditService
	metrics      core.Recorder
	now          func() time.Time
}

func NewTokenService(
	s *store.Store,
	cfg *config.Config,
	registry *ClientRegistry,
	auditService *AuditService,
	m core.Recorder,
) *TokenService {
	return &TokenService{
		store:        s,
		config:       cfg,
		registry:     registry,
		auditService: auditService,
		metrics:      m,
		now:          time.Now,
	}
}

// IssueRequestToken authenticates the consumer behind proof and creates a
// request token. An empty callback issues a 1.0 token; a URL or "oob"
// issues a 1.0a token. requested narrows the provisional permissions; an
// empty set means the client's whole ceiling.
func (s *TokenService) IssueRequestToken(
	ctx context.Context,
	proof core.SignatureProof,
	callback string,
	requested models.PermissionSet,
) (*models.OAuthToken, error) {
	variant := models.Variant10
	if callback != "" {
		variant = models.Variant10a
	}

	client, err := s.registry.AuthenticateSigned(ctx, proof, "")
	if err != nil {
		s.metrics.RecordRequestTokenIssued(string(variant), false)
		if errors.Is(err, ErrInvalidClient) {
			s.auditService.Log(ctx, AuditLogEntry{
				EventType:    models.EventInvalidClient,
				Severity:     models.SeverityWarning,
				ResourceType: models.ResourceClient,
				ResourceName: proof.ConsumerKey(),
				Action:       "Request token refused: invalid consumer credentials",
				Success:      false,
			})
		}
		return nil, err
	}

	if err := validateCallback(callback); err != nil {
		s.metrics.RecordRequestTokenIssued(string(variant), false)
		return nil, err
	}

	permissions := s.registry.PermissionsOf(client)
	if !requested.IsEmpty() {
		permissions = requested
	}

	token, err := s.newToken(models.TokenKindRequest)
	if err != nil {
		s.metrics.RecordRequestTokenIssued(string(variant), false)
		return nil, err
	}
	token.Variant = variant
	token.ClientApplicationID = client.ID
	token.Permissions = permissions
	token.CallbackURL = callback

	if err := s.store.CreateToken(ctx, token); err != nil {
		s.metrics.RecordRequestTokenIssued(string(variant), false)
		return nil, fmt.Errorf("create request token: %w", err)
	}
	token.ClientApplication = client

	s.metrics.RecordRequestTokenIssued(string(variant), true)
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventRequestTokenIssued,
		ResourceType: models.ResourceToken,
		ResourceID:   tokenResourceID(token),
		ResourceName: client.Name,
		Action:       "Request token issued",
		Details: models.AuditDetails{
			"variant":     string(variant),
			"permissions": permissions.String(),
			"callback":    callback,
		},
		Success: true,
	})
	return token, nil
}

// GetPendingRequestToken returns a request token that still awaits the
// end user's decision.
func (s *TokenService) GetPendingRequestToken(ctx context.Context, id string) (*models.OAuthToken, error) {
	token, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if state := token.State(); state != models.StateRequested {
		return nil, fmt.Errorf("%w: token is %s", ErrInvalidTokenState, state)
	}
	return token, nil
}

// Authorize approves a REQUESTED token for principal. The final permissions
// are granted ∩ provisional ∩ client ceiling. 1.0a tokens get a verifier.
// A 1.0 token without a callback adopts callback when one is supplied.
func (s *TokenService) Authorize(
	ctx context.Context,
	id string,
	principal *models.User,
	granted models.PermissionSet,
	callback string,
) (*AuthorizationResult, error) {
	token, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	client := token.ClientApplication

	if state := token.State(); state != models.StateRequested {
		s.logRejectedDecision(ctx, token, principal, "authorize")
		return nil, fmt.Errorf("%w: cannot authorize %s token", ErrInvalidTokenState, state)
	}

	if token.Variant == models.Variant10 && callback != "" && token.CallbackURL == "" {
		if callback == models.CallbackOutOfBand || validateCallback(callback) != nil {
			return nil, ErrInvalidCallback
		}
		token.CallbackURL = callback
	}

	now := s.now()
	token.UserID = &principal.ID
	token.Permissions = granted.Intersect(token.Permissions).Intersect(s.registry.PermissionsOf(client))
	token.AuthorizedAt = &now
	if token.Variant == models.Variant10a {
		verifier, err := util.RandomAlphanumeric(s.config.VerifierLength)
		if err != nil {
			return nil, fmt.Errorf("generate verifier: %w", err)
		}
		token.Verifier = verifier
	}

	if err := s.store.UpdateToken(ctx, token); err != nil {
		if errors.Is(err, store.ErrStaleRecord) {
			s.logRejectedDecision(ctx, token, principal, "authorize")
			return nil, fmt.Errorf("%w: token changed concurrently", ErrInvalidTokenState)
		}
		return nil, fmt.Errorf("authorize token: %w", err)
	}

	s.metrics.RecordAuthorizationDecision("approved")
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:     models.EventRequestTokenApproved,
		ActorUserID:   principal.ID,
		ActorUsername: principal.DisplayName,
		ResourceType:  models.ResourceToken,
		ResourceID:    tokenResourceID(token),
		ResourceName:  client.Name,
		Action:        "Request token approved",
		Details:       models.AuditDetails{"permissions": token.Permissions.String()},
		Success:       true,
	})

	result := &AuthorizationResult{Token: token, Client: client}
	if redirect, ok := ResolveRedirect(token, client); ok {
		result.RedirectURL = redirect
	}
	return result, nil
}

// Deny refuses a REQUESTED token. firstDenial is true when this call made
// the transition and false when the token was already denied. Any other
// state fails with ErrInvalidTokenState.
func (s *TokenService) Deny(
	ctx context.Context,
	id string,
	principal *models.User,
) (firstDenial bool, err error) {
	token, err := s.Find(ctx, id)
	if err != nil {
		return false, err
	}

	switch token.State() {
	case models.StateDenied:
		return false, nil
	case models.StateRequested:
	default:
		s.logRejectedDecision(ctx, token, principal, "deny")
		return false, fmt.Errorf("%w: cannot deny %s token", ErrInvalidTokenState, token.State())
	}

	now := s.now()
	token.InvalidatedAt = &now
	if err := s.store.UpdateToken(ctx, token); err != nil {
		if !errors.Is(err, store.ErrStaleRecord) {
			return false, fmt.Errorf("deny token: %w", err)
		}
		// Someone else decided first. A concurrent denial is still a denial.
		current, findErr := s.Find(ctx, id)
		if findErr == nil && current.State() == models.StateDenied {
			return false, nil
		}
		s.logRejectedDecision(ctx, token, principal, "deny")
		return false, fmt.Errorf("%w: token changed concurrently", ErrInvalidTokenState)
	}

	s.metrics.RecordAuthorizationDecision("denied")
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:     models.EventRequestTokenDenied,
		ActorUserID:   principal.ID,
		ActorUsername: principal.DisplayName,
		ResourceType:  models.ResourceToken,
		ResourceID:    tokenResourceID(token),
		ResourceName:  token.ClientApplication.Name,
		Action:        "Request token denied",
		Success:       true,
	})
	return true, nil
}

// ExchangeForAccess trades an AUTHORIZED request token for a new access
// token. The proof must be signed with the consumer secret and the request
// token secret; 1.0a tokens also need the exact verifier. Exchanging from
// any other state fails with an error matching both ErrInvalidTokenState
// and ErrUnauthorized.
func (s *TokenService) ExchangeForAccess(
	ctx context.Context,
	id, verifier string,
	proof core.SignatureProof,
) (*models.OAuthToken, error) {
	start := s.now()
	token, access, result, err := s.exchange(ctx, id, verifier, proof)
	s.metrics.RecordTokenExchange(result, s.now().Sub(start))

	if err != nil {
		if token != nil && !errors.Is(err, ErrTokenNotFound) {
			s.auditService.Log(ctx, AuditLogEntry{
				EventType:    models.EventTokenExchangeFailed,
				Severity:     models.SeverityWarning,
				ResourceType: models.ResourceToken,
				ResourceID:   tokenResourceID(token),
				ResourceName: token.ClientApplication.Name,
				Action:       "Access token exchange refused",
				Details:      models.AuditDetails{"reason": result, "state": string(token.State())},
				Success:      false,
				ErrorMessage: err.Error(),
			})
		}
		return nil, err
	}

	s.auditService.Log(ctx, AuditLogEntry{
		EventType:    models.EventAccessTokenIssued,
		ActorUserID:  *access.UserID,
		ResourceType: models.ResourceToken,
		ResourceID:   tokenResourceID(access),
		ResourceName: access.ClientApplication.Name,
		Action:       "Access token issued",
		Details: models.AuditDetails{
			"request_token_id": tokenResourceID(token),
			"permissions":      access.Permissions.String(),
		},
		Success: true,
	})
	return access, nil
}

func (s *TokenService) exchange(
	ctx context.Context,
	id, verifier string,
	proof core.SignatureProof,
) (*models.OAuthToken, *models.OAuthToken, string, error) {
	token, err := s.Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, nil, exchangeInvalidState, err
		}
		return nil, nil, exchangeError, err
	}
	client := token.ClientApplication

	if state := token.State(); state != models.StateAuthorized {
		return token, nil, exchangeInvalidState,
			fmt.Errorf("%w: %w: cannot exchange %s token", ErrInvalidTokenState, ErrUnauthorized, state)
	}

	if proof.ConsumerKey() != client.Key || !proof.Verify(client.Secret, token.Secret) {
		return token, nil, exchangeBadSignature, fmt.Errorf("%w: bad signature", ErrUnauthorized)
	}

	if token.Variant == models.Variant10a && !util.SecureCompare(token.Verifier, verifier) {
		return token, nil, exchangeBadVerifier, fmt.Errorf("%w: verifier mismatch", ErrUnauthorized)
	}

	access, err := s.newToken(models.TokenKindAccess)
	if err != nil {
		return token, nil, exchangeError, err
	}
	now := s.now()
	access.Variant = token.Variant
	access.ClientApplicationID = token.ClientApplicationID
	access.UserID = token.UserID
	access.Permissions = token.Permissions
	access.CreatedAt = now
	access.AuthorizedAt = &now

	token.InvalidatedAt = &now
	if err := s.store.ExchangeToken(ctx, token, access); err != nil {
		token.InvalidatedAt = nil
		if errors.Is(err, store.ErrStaleRecord) {
			return token, nil, exchangeInvalidState,
				fmt.Errorf("%w: %w: token changed concurrently", ErrInvalidTokenState, ErrUnauthorized)
		}
		return token, nil, exchangeError, fmt.Errorf("exchange token: %w", err)
	}
	access.ClientApplication = client

	zap.S().Debugw("request token exchanged",
		"client", client.Name, "request_token_id", token.ID, "access_token_id", access.ID)
	return token, access, exchangeSuccess, nil
}

// Revoke invalidates principal's ACTIVE access token. Revoking an already
// REVOKED token succeeds without change. Tokens owned by someone else fail
// with ErrNotTokenOwner.
func (s *TokenService) Revoke(ctx context.Context, id string, principal *models.User) error {
	token, err := s.Find(ctx, id)
	if err != nil {
		return err
	}
	if !token.IsAccessToken() {
		return fmt.Errorf("%w: not an access token", ErrInvalidTokenState)
	}
	if !token.OwnedBy(principal.ID) {
		s.auditService.Log(ctx, AuditLogEntry{
			EventType:     models.EventTokenRevoked,
			Severity:      models.SeverityWarning,
			ActorUserID:   principal.ID,
			ActorUsername: principal.DisplayName,
			ResourceType:  models.ResourceToken,
			ResourceID:    tokenResourceID(token),
			Action:        "Revocation refused: token owned by another user",
			Success:       false,
		})
		return ErrNotTokenOwner
	}
	if token.State() == models.StateRevoked {
		return nil
	}

	now := s.now()
	token.InvalidatedAt = &now
	if err := s.store.UpdateToken(ctx, token); err != nil {
		if !errors.Is(err, store.ErrStaleRecord) {
			return fmt.Errorf("revoke token: %w", err)
		}
		current, findErr := s.Find(ctx, id)
		if findErr == nil && current.State() == models.StateRevoked {
			return nil
		}
		return fmt.Errorf("%w: token changed concurrently", ErrInvalidTokenState)
	}

	s.metrics.RecordTokenRevoked()
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:     models.EventTokenRevoked,
		ActorUserID:   principal.ID,
		ActorUsername: principal.DisplayName,
		ResourceType:  models.ResourceToken,
		ResourceID:    tokenResourceID(token),
		ResourceName:  token.ClientApplication.Name,
		Action:        "Access token revoked",
		Success:       true,
	})
	return nil
}

// Find returns the token with the given public identifier.
func (s *TokenService) Find(ctx context.Context, id string) (*models.OAuthToken, error) {
	if id == "" {
		return nil, ErrTokenNotFound
	}
	token, err := s.store.GetToken(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("find token: %w", err)
	}
	return token, nil
}

// ListUserTokens returns userID's active access tokens grouped by client,
// in order of each client's newest token.
func (s *TokenService) ListUserTokens(ctx context.Context, userID string) ([]AuthorizedClient, error) {
	tokens, err := s.store.ListActiveAccessTokensByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var groups []AuthorizedClient
	index := make(map[int64]int)
	for _, t := range tokens {
		i, ok := index[t.ClientApplicationID]
		if !ok {
			i = len(groups)
			index[t.ClientApplicationID] = i
			group := AuthorizedClient{}
			if t.ClientApplication != nil {
				group.Client = *t.ClientApplication
			}
			groups = append(groups, group)
		}
		groups[i].Tokens = append(groups[i].Tokens, t)
	}
	return groups, nil
}

func (s *TokenService) newToken(kind models.TokenKind) (*models.OAuthToken, error) {
	key, err := util.RandomAlphanumeric(s.config.TokenLength)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	secret, err := util.RandomAlphanumeric(s.config.SecretLength)
	if err != nil {
		return nil, fmt.Errorf("generate token secret: %w", err)
	}
	return &models.OAuthToken{
		Token:  key,
		Secret: secret,
		Kind:   kind,
	}, nil
}

// logRejectedDecision keeps the real state in the audit log while callers
// only see "not valid".
func (s *TokenService) logRejectedDecision(
	ctx context.Context,
	token *models.OAuthToken,
	principal *models.User,
	decision string,
) {
	s.metrics.RecordAuthorizationDecision("rejected")
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:     models.EventRequestTokenRejected,
		Severity:      models.SeverityWarning,
		ActorUserID:   principal.ID,
		ActorUsername: principal.DisplayName,
		ResourceType:  models.ResourceToken,
		ResourceID:    tokenResourceID(token),
		Action:        "Decision on a request token that is no longer pending",
		Details:       models.AuditDetails{"decision": decision, "state": string(token.State())},
		Success:       false,
	})
}

func tokenResourceID(token *models.OAuthToken) string {
	return strconv.FormatInt(token.ID, 10)
}
