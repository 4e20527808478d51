package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-authgate/oauth1gate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Authenticate(t *testing.T) {
	env := newTestEnv(t)
	alice := env.createUser(t, "alice", models.UserStatusActive)
	ctx := context.Background()

	user, err := env.users.Authenticate(ctx, "alice", testPassword)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	user, err = env.users.Authenticate(ctx, "alice@example.com", testPassword)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, user.ID)

	_, err = env.users.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.users.Authenticate(ctx, "nobody", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserService_AuthenticateBlocked(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "moderator", models.UserStatusConfirmed)
	alice := env.createUser(t, "alice", models.UserStatusActive)
	pending := env.createUser(t, "pending", models.UserStatusPending)
	ctx := context.Background()

	_, err := env.users.Authenticate(ctx, pending.DisplayName, testPassword)
	assert.NoError(t, err, "pending users may sign in")

	_, err = env.users.Suspend(ctx, alice.ID, admin)
	require.NoError(t, err)
	_, err = env.users.Authenticate(ctx, "alice", testPassword)
	assert.ErrorIs(t, err, ErrAccountBlocked)
}

func TestUserService_CreateUserValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name, displayName, email, password string
	}{
		{"empty name", " ", "a@example.com", testPassword},
		{"name with at sign", "a@b", "a@example.com", testPassword},
		{"bad email", "carol", "carol", testPassword},
		{"short password", "carol", "carol@example.com", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.users.CreateUser(ctx, tt.displayName, tt.email, tt.password, models.UserStatusActive)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestUserService_StatusTransitions(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "moderator", models.UserStatusConfirmed)
	ctx := context.Background()

	type step struct {
		op   func(id string) (*models.User, error)
		want models.UserStatus
		err  error
	}
	suspend := func(id string) (*models.User, error) { return env.users.Suspend(ctx, id, admin) }
	unsuspend := func(id string) (*models.User, error) { return env.users.Unsuspend(ctx, id, admin) }
	hide := func(id string) (*models.User, error) { return env.users.Hide(ctx, id, admin) }
	unhide := func(id string) (*models.User, error) { return env.users.Unhide(ctx, id, admin) }
	confirm := func(id string) (*models.User, error) { return env.users.Confirm(ctx, id) }

	tests := []struct {
		name  string
		start models.UserStatus
		steps []step
	}{
		{
			name:  "suspend and restore",
			start: models.UserStatusConfirmed,
			steps: []step{
				{op: suspend, want: models.UserStatusSuspended},
				{op: suspend, err: ErrInvalidStatusTransition},
				{op: unsuspend, want: models.UserStatusActive},
				{op: unsuspend, err: ErrInvalidStatusTransition},
			},
		},
		{
			name:  "confirmed account unhides confirmed",
			start: models.UserStatusConfirmed,
			steps: []step{
				{op: hide, want: models.UserStatusDeleted},
				{op: hide, err: ErrInvalidStatusTransition},
				{op: suspend, err: ErrInvalidStatusTransition},
				{op: unhide, want: models.UserStatusConfirmed},
				{op: unhide, err: ErrInvalidStatusTransition},
			},
		},
		{
			name:  "suspended account unhides active",
			start: models.UserStatusActive,
			steps: []step{
				{op: suspend, want: models.UserStatusSuspended},
				{op: hide, want: models.UserStatusDeleted},
				{op: unhide, want: models.UserStatusActive},
			},
		},
		{
			name:  "pending account confirms",
			start: models.UserStatusPending,
			steps: []step{
				{op: confirm, want: models.UserStatusConfirmed},
				{op: confirm, err: ErrInvalidStatusTransition},
			},
		},
	}
	for n, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := env.createUser(t, fmt.Sprintf("user%d", n), tt.start)
			for i, s := range tt.steps {
				got, err := s.op(user.ID)
				if s.err != nil {
					assert.ErrorIs(t, err, s.err, "step %d", i)
					continue
				}
				require.NoError(t, err, "step %d", i)
				assert.Equal(t, s.want, got.Status, "step %d", i)

				stored, err := env.users.GetUserByID(ctx, user.ID)
				require.NoError(t, err)
				assert.Equal(t, s.want, stored.Status, "step %d", i)
			}
		})
	}
}

func TestUserService_TransitionUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "moderator", models.UserStatusConfirmed)

	_, err := env.users.Suspend(context.Background(), "missing", admin)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = env.users.GetUserByDisplayName(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
