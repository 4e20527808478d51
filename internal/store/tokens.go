package store

import (
	"context"
	"fmt"
	"time"

	"github.com/go-authgate/oauth1gate/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// tokenColumns lists every mutable column UpdateToken rewrites. The full
// record is replaced; there are no partial-field updates.
var tokenColumns = []string{
	"secret",
	"kind",
	"variant",
	"client_application_id",
	"user_id",
	"permissions",
	"callback_url",
	"verifier",
	"authorized_at",
	"invalidated_at",
	"version",
}

// CreateToken inserts a new token with version 0.
func (s *Store) CreateToken(ctx context.Context, token *models.OAuthToken) error {
	token.Version = 0
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(token).Error
}

// GetToken finds a token by its public identifier, with its client loaded.
func (s *Store) GetToken(ctx context.Context, token string) (*models.OAuthToken, error) {
	var t models.OAuthToken
	err := s.db.WithContext(ctx).
		Preload("ClientApplication").
		Where("token = ?", token).
		First(&t).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &t, nil
}

// UpdateToken writes the whole record back if, and only if, nobody else has
// written it since it was read. On success token.Version is incremented.
// Returns ErrStaleRecord when the compare-and-swap loses.
func (s *Store) UpdateToken(ctx context.Context, token *models.OAuthToken) error {
	return updateToken(s.db.WithContext(ctx), token)
}

func updateToken(db *gorm.DB, token *models.OAuthToken) error {
	expected := token.Version
	next := *token
	next.Version = expected + 1

	result := db.Model(&models.OAuthToken{}).
		Where("token = ? AND version = ?", token.Token, expected).
		Select(tokenColumns).
		Omit(clause.Associations).
		Updates(&next)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStaleRecord
	}
	token.Version = next.Version
	return nil
}

// ExchangeToken invalidates the authorized request token and inserts the
// new access token in one transaction. Either both writes land or neither.
func (s *Store) ExchangeToken(
	ctx context.Context,
	request *models.OAuthToken,
	access *models.OAuthToken,
) error {
	requestVersion := request.Version
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateToken(tx, request); err != nil {
			return err
		}
		access.Version = 0
		if err := tx.Omit(clause.Associations).Create(access).Error; err != nil {
			return fmt.Errorf("create access token: %w", err)
		}
		return nil
	})
	if err != nil {
		// the in-memory copy must match what is stored
		request.Version = requestVersion
		return err
	}
	return nil
}

// ListActiveAccessTokensByUser returns the user's active access tokens,
// newest first, with their clients loaded.
func (s *Store) ListActiveAccessTokensByUser(
	ctx context.Context,
	userID string,
) ([]models.OAuthToken, error) {
	var tokens []models.OAuthToken
	err := s.db.WithContext(ctx).
		Preload("ClientApplication").
		Where("user_id = ? AND kind = ? AND authorized_at IS NOT NULL AND invalidated_at IS NULL",
			userID, models.TokenKindAccess).
		Order("created_at DESC").
		Find(&tokens).Error
	return tokens, err
}

// CountActiveAccessTokens counts access tokens that are neither revoked
// nor otherwise invalidated.
func (s *Store) CountActiveAccessTokens(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.OAuthToken{}).
		Where("kind = ? AND authorized_at IS NOT NULL AND invalidated_at IS NULL", models.TokenKindAccess).
		Count(&count).Error
	return count, err
}

// CountPendingRequestTokens counts request tokens created within window that
// still wait for a decision (authorized=false) or for the exchange
// (authorized=true).
func (s *Store) CountPendingRequestTokens(
	ctx context.Context,
	window time.Duration,
	authorized bool,
) (int64, error) {
	query := s.db.WithContext(ctx).Model(&models.OAuthToken{}).
		Where("kind = ? AND invalidated_at IS NULL AND created_at > ?",
			models.TokenKindRequest, time.Now().Add(-window))
	if authorized {
		query = query.Where("authorized_at IS NOT NULL")
	} else {
		query = query.Where("authorized_at IS NULL")
	}

	var count int64
	err := query.Count(&count).Error
	return count, err
}
