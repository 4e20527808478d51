package models

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSetUserContext(t *testing.T) {
	tests := []struct {
		name     string
		user     *User
		expected bool
	}{
		{
			name: "Valid user",
			user: &User{
				ID:          "user-123",
				DisplayName: "testuser",
			},
			expected: true,
		},
		{
			name:     "Nil user",
			user:     nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newCtx := SetUserContext(context.Background(), tt.user)
			if newCtx == nil {
				t.Fatal("SetUserContext returned nil context")
			}

			retrievedUser := GetUserFromContext(newCtx)
			if tt.expected {
				if retrievedUser == nil {
					t.Error("Expected user to be in context, but got nil")
				} else if retrievedUser.ID != tt.user.ID {
					t.Errorf("Expected user ID %s, got %s", tt.user.ID, retrievedUser.ID)
				}
			} else if retrievedUser != nil {
				t.Error("Expected no user in context, but got one")
			}
		})
	}
}

func TestGetDisplayNameFromContext(t *testing.T) {
	ctx := SetUserContext(context.Background(), &User{ID: "u1", DisplayName: "mapper"})
	if got := GetDisplayNameFromContext(ctx); got != "mapper" {
		t.Errorf("Expected display name %q, got %q", "mapper", got)
	}
	if got := GetUserIDFromContext(context.Background()); got != "" {
		t.Errorf("Expected empty user ID, got %q", got)
	}
}

func TestGetUserFromGinContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	if GetUserFromContext(c) != nil {
		t.Fatal("Expected no user before middleware runs")
	}

	c.Set("user", &User{ID: "u2", DisplayName: "surveyor"})
	if got := GetDisplayNameFromContext(c); got != "surveyor" {
		t.Errorf("Expected display name %q, got %q", "surveyor", got)
	}
}
