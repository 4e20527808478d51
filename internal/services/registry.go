package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-authgate/oauth1gate/internal/core"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/store"
	"github.com/go-authgate/oauth1gate/internal/util"
)

// ClientRegistry is the read-only view of registered client applications.
type ClientRegistry struct {
	store *store.Store
}

func NewClientRegistry(s *store.Store) *ClientRegistry {
	return &ClientRegistry{store: s}
}

// Authenticate returns the client whose key and secret both match.
func (r *ClientRegistry) Authenticate(
	ctx context.Context,
	key, secret string,
) (*models.ClientApplication, error) {
	client, err := r.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	if !util.SecureCompare(client.Secret, secret) {
		return nil, ErrInvalidClient
	}
	return client, nil
}

// AuthenticateSigned returns the client named by the proof if the proof's
// signature verifies against its secret and tokenSecret.
func (r *ClientRegistry) AuthenticateSigned(
	ctx context.Context,
	proof core.SignatureProof,
	tokenSecret string,
) (*models.ClientApplication, error) {
	client, err := r.lookup(ctx, proof.ConsumerKey())
	if err != nil {
		return nil, err
	}
	if !proof.Verify(client.Secret, tokenSecret) {
		return nil, ErrInvalidClient
	}
	return client, nil
}

// PermissionsOf returns the permission ceiling of client.
func (r *ClientRegistry) PermissionsOf(client *models.ClientApplication) models.PermissionSet {
	return client.Permissions
}

// ListClients returns every registered client.
func (r *ClientRegistry) ListClients(ctx context.Context) ([]models.ClientApplication, error) {
	return r.store.ListClients(ctx)
}

func (r *ClientRegistry) lookup(ctx context.Context, key string) (*models.ClientApplication, error) {
	if key == "" {
		return nil, ErrInvalidClient
	}
	client, err := r.store.GetClientByKey(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrInvalidClient
		}
		return nil, fmt.Errorf("lookup client: %w", err)
	}
	return client, nil
}
