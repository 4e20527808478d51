package store

import (
	"context"
	"errors"

	"github.com/go-authgate/oauth1gate/internal/models"

	"gorm.io/gorm"
)

// User operations
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *Store) GetUserByDisplayName(ctx context.Context, name string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("display_name = ?", name).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

// CreateUser inserts a user, returning ErrDisplayNameConflict when the
// display name is taken.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		err := tx.Where("display_name = ?", user.DisplayName).First(&existing).Error
		if err == nil {
			return ErrDisplayNameConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(user).Error
	})
	return err
}

// UpdateUserStatus sets the status columns of a user.
func (s *Store) UpdateUserStatus(
	ctx context.Context,
	id string,
	status, statusBeforeHide models.UserStatus,
) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Select("status", "status_before_hide").
		Updates(&models.User{Status: status, StatusBeforeHide: statusBeforeHide})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
