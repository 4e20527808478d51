package models

import (
	"time"
)

// UserStatus is the account lifecycle status.
type UserStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusConfirmed UserStatus = "confirmed"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDeleted   UserStatus = "deleted" // hidden by an administrator
)

type User struct {
	ID           string     `gorm:"primaryKey"`
	DisplayName  string     `gorm:"uniqueIndex;not null"`
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Role         string     `gorm:"not null;default:'user'"` // "admin" or "user"
	Status       UserStatus `gorm:"type:varchar(16);not null;default:'pending';index"`
	// StatusBeforeHide remembers what Unhide restores.
	StatusBeforeHide UserStatus `gorm:"type:varchar(16)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

// CanUseAPI reports whether tokens issued to this user may be used right now.
func (u *User) CanUseAPI() bool {
	return u.Status == UserStatusActive || u.Status == UserStatusConfirmed
}

// CanLogin reports whether the user may sign in to the web UI. Pending
// users may sign in but their tokens stay blocked until confirmed.
func (u *User) CanLogin() bool {
	return u.Status != UserStatusSuspended && u.Status != UserStatusDeleted
}

// IsHidden returns true if an administrator hid the account
func (u *User) IsHidden() bool {
	return u.Status == UserStatusDeleted
}
