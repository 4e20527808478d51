package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-authgate/oauth1gate/internal/auth"
	"github.com/go-authgate/oauth1gate/internal/core"
	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService struct {
	store         *store.Store
	localProvider *auth.LocalAuthProvider
	auditService  *AuditService
	metrics       core.Recorder
}

func NewUserService(
	s *store.Store,
	localProvider *auth.LocalAuthProvider,
	auditService *AuditService,
	m core.Recorder,
) *UserService {
	return &UserService{
		store:         s,
		localProvider: localProvider,
		auditService:  auditService,
		metrics:       m,
	}
}

// Authenticate checks a web login. Suspended and hidden accounts cannot
// sign in even with the right password.
func (s *UserService) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	user, err := s.localProvider.Authenticate(ctx, login, password)
	if err != nil {
		s.metrics.RecordLogin(false)
		s.auditService.Log(ctx, AuditLogEntry{
			EventType:     models.EventAuthenticationFailure,
			Severity:      models.SeverityWarning,
			ActorUsername: login,
			ResourceType:  models.ResourceUser,
			Action:        "Login failed",
			Success:       false,
		})
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		s.metrics.RecordLogin(false)
		zap.S().Infow("blocked account attempted login", "user_id", user.ID, "status", user.Status)
		return nil, ErrAccountBlocked
	}

	s.metrics.RecordLogin(true)
	s.auditService.Log(ctx, AuditLogEntry{
		EventType:     models.EventAuthenticationSuccess,
		ActorUserID:   user.ID,
		ActorUsername: user.DisplayName,
		ResourceType:  models.ResourceUser,
		ResourceID:    user.ID,
		Action:        "Login succeeded",
		Success:       true,
	})
	return user, nil
}

// CreateUser registers a user with a bcrypt-hashed password.
func (s *UserService) CreateUser(
	ctx context.Context,
	displayName, email, password string,
	status models.UserStatus,
) (*models.User, error) {
	displayName = strings.TrimSpace(displayName)
	email = strings.TrimSpace(email)
	if displayName == "" || strings.Contains(displayName, "@") || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: display name and email are required", ErrInvalidInput)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		DisplayName:  displayName,
		Email:        email,
		PasswordHash: hash,
		Role:         "user",
		Status:       status,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetUserByDisplayName(ctx context.Context, name string) (*models.User, error) {
	user, err := s.store.GetUserByDisplayName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Suspend blocks a pending, active or confirmed account.
func (s *UserService) Suspend(ctx context.Context, id string, actor *models.User) (*models.User, error) {
	return s.transition(ctx, id, actor, models.EventUserSuspended,
		func(u *models.User) (models.UserStatus, models.UserStatus, bool) {
			switch u.Status {
			case models.UserStatusPending, models.UserStatusActive, models.UserStatusConfirmed:
				return models.UserStatusSuspended, u.StatusBeforeHide, true
			}
			return "", "", false
		})
}

// Unsuspend returns a suspended account to active.
func (s *UserService) Unsuspend(ctx context.Context, id string, actor *models.User) (*models.User, error) {
	return s.transition(ctx, id, actor, models.EventUserUnsuspended,
		func(u *models.User) (models.UserStatus, models.UserStatus, bool) {
			if u.Status != models.UserStatusSuspended {
				return "", "", false
			}
			return models.UserStatusActive, u.StatusBeforeHide, true
		})
}

// Hide marks any visible account deleted, remembering its status.
func (s *UserService) Hide(ctx context.Context, id string, actor *models.User) (*models.User, error) {
	return s.transition(ctx, id, actor, models.EventUserHidden,
		func(u *models.User) (models.UserStatus, models.UserStatus, bool) {
			if u.IsHidden() {
				return "", "", false
			}
			return models.UserStatusDeleted, u.Status, true
		})
}

// Unhide makes a hidden account visible again. A confirmed account comes
// back confirmed; anything else, including a suspension, comes back active.
func (s *UserService) Unhide(ctx context.Context, id string, actor *models.User) (*models.User, error) {
	return s.transition(ctx, id, actor, models.EventUserUnhidden,
		func(u *models.User) (models.UserStatus, models.UserStatus, bool) {
			if !u.IsHidden() {
				return "", "", false
			}
			if u.StatusBeforeHide == models.UserStatusConfirmed {
				return models.UserStatusConfirmed, "", true
			}
			return models.UserStatusActive, "", true
		})
}

// Confirm moves a pending or active account to confirmed.
func (s *UserService) Confirm(ctx context.Context, id string) (*models.User, error) {
	return s.transition(ctx, id, nil, "",
		func(u *models.User) (models.UserStatus, models.UserStatus, bool) {
			switch u.Status {
			case models.UserStatusPending, models.UserStatusActive:
				return models.UserStatusConfirmed, u.StatusBeforeHide, true
			}
			return "", "", false
		})
}

func (s *UserService) transition(
	ctx context.Context,
	id string,
	actor *models.User,
	event models.EventType,
	next func(*models.User) (status, before models.UserStatus, ok bool),
) (*models.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	from := user.Status
	status, before, ok := next(user)
	if !ok {
		return nil, fmt.Errorf("%w: from %s", ErrInvalidStatusTransition, from)
	}
	if err := s.store.UpdateUserStatus(ctx, user.ID, status, before); err != nil {
		return nil, fmt.Errorf("update user status: %w", err)
	}
	user.Status = status
	user.StatusBeforeHide = before

	if event != "" {
		entry := AuditLogEntry{
			EventType:    event,
			ResourceType: models.ResourceUser,
			ResourceID:   user.ID,
			ResourceName: user.DisplayName,
			Action:       fmt.Sprintf("Account status changed from %s to %s", from, status),
			Details:      models.AuditDetails{"from": string(from), "to": string(status)},
			Success:      true,
		}
		if actor != nil {
			entry.ActorUserID = actor.ID
			entry.ActorUsername = actor.DisplayName
		}
		s.auditService.Log(ctx, entry)
	}
	return user, nil
}
