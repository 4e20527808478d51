package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-authgate/oauth1gate/internal/core"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/store"
)

// Guard check metric results.
const (
	guardOK           = "ok"
	guardUnauthorized = "unauthorized"
	guardForbidden    = "forbidden"
	guardError        = "error"
)

// Grant is what a verified access token entitles its caller to.
type Grant struct {
	Principal   *models.User
	Permissions models.PermissionSet
	Token       *models.OAuthToken
}

// AccessGuard checks signed API requests against access tokens and the
// current status of their owners. Nothing is cached: both the token and the
// owner are read from the store on every call.
type AccessGuard struct {
	store        *store.Store
	auditService *AuditService
	metrics      core.Recorder
}

func NewAccessGuard(s *store.Store, auditService *AuditService, m core.Recorder) *AccessGuard {
	return &AccessGuard{
		store:        s,
		auditService: auditService,
		metrics:      m,
	}
}

// AuthorizeRequest resolves an access token and signature proof to the
// principal and frozen permissions. It fails with ErrUnauthorized when the
// token is unknown, not ACTIVE or the proof does not verify, and with
// ErrForbidden when the owner is suspended, hidden or not yet confirmed.
// Capability checks are left to the caller.
func (g *AccessGuard) AuthorizeRequest(
	ctx context.Context,
	id string,
	proof core.SignatureProof,
) (*Grant, error) {
	start := time.Now()
	grant, result, err := g.authorize(ctx, id, proof)
	g.metrics.RecordGuardResult(result, time.Since(start))
	return grant, err
}

func (g *AccessGuard) authorize(
	ctx context.Context,
	id string,
	proof core.SignatureProof,
) (*Grant, string, error) {
	if id == "" {
		return nil, guardUnauthorized, fmt.Errorf("%w: no access token", ErrUnauthorized)
	}

	token, err := g.store.GetToken(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, guardUnauthorized, fmt.Errorf("%w: unknown token", ErrUnauthorized)
		}
		return nil, guardError, fmt.Errorf("load token: %w", err)
	}
	if token.State() != models.StateActive || token.UserID == nil {
		return nil, guardUnauthorized, fmt.Errorf("%w: token is %s", ErrUnauthorized, token.State())
	}

	client := token.ClientApplication
	if client == nil || proof.ConsumerKey() != client.Key || !proof.Verify(client.Secret, token.Secret) {
		g.metrics.RecordSignatureFailure("signature")
		g.auditService.Log(ctx, AuditLogEntry{
			EventType:    models.EventSignatureFailure,
			Severity:     models.SeverityWarning,
			ResourceType: models.ResourceToken,
			ResourceID:   tokenResourceID(token),
			Action:       "Signed API request rejected",
			Success:      false,
		})
		return nil, guardUnauthorized, fmt.Errorf("%w: bad signature", ErrUnauthorized)
	}

	user, err := g.store.GetUserByID(ctx, *token.UserID)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, guardUnauthorized, fmt.Errorf("%w: token owner no longer exists", ErrUnauthorized)
		}
		return nil, guardError, fmt.Errorf("load token owner: %w", err)
	}
	if !user.CanUseAPI() {
		g.auditService.Log(ctx, AuditLogEntry{
			EventType:     models.EventAccessForbidden,
			Severity:      models.SeverityWarning,
			ActorUserID:   user.ID,
			ActorUsername: user.DisplayName,
			ResourceType:  models.ResourceToken,
			ResourceID:    tokenResourceID(token),
			ResourceName:  client.Name,
			Action:        "API access refused for blocked account",
			Details:       models.AuditDetails{"status": string(user.Status)},
			Success:       false,
		})
		return nil, guardForbidden, fmt.Errorf("%w: account is %s", ErrForbidden, user.Status)
	}

	return &Grant{
		Principal:   user,
		Permissions: token.Permissions,
		Token:       token,
	}, guardOK, nil
}
