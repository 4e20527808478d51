package models

import (
	"time"
)

// ClientApplication is a registered consumer. Registration is a seed
// operation; records are read-only afterwards.
type ClientApplication struct {
	ID          int64         `gorm:"primaryKey;autoIncrement"`
	Key         string        `gorm:"column:consumer_key;uniqueIndex;not null;size:64"`
	Secret      string        `gorm:"not null;size:64"` // HMAC-SHA1 needs the plaintext secret
	Name        string        `gorm:"not null"`
	CallbackURL string        // optional static callback, overrides per-token callbacks
	Permissions PermissionSet `gorm:"type:varchar(255);not null"`
	OwnerID     string        `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasStaticCallback returns true if the client registered a fixed callback URL
func (c *ClientApplication) HasStaticCallback() bool {
	return c.CallbackURL != ""
}

// TableName overrides the table name used by ClientApplication to `client_applications`
func (ClientApplication) TableName() string {
	return "client_applications"
}
