package models

import (
	"time"
)

// TokenKind separates request tokens from access tokens sharing one table.
type TokenKind string

const (
	TokenKindRequest TokenKind = "request"
	TokenKindAccess  TokenKind = "access"
)

// Variant is the protocol revision a token was issued under.
type Variant string

const (
	// Variant10 is OAuth 1.0: no verifier, callback optional at any step.
	Variant10 Variant = "1.0"
	// Variant10a is OAuth 1.0a: callback fixed at issuance, verifier required.
	Variant10a Variant = "1.0a"
)

// CallbackOutOfBand is the oauth_callback value for clients that cannot
// receive redirects.
const CallbackOutOfBand = "oob"

// TokenState is derived from (AuthorizedAt, InvalidatedAt, Kind) and never stored.
type TokenState string

const (
	StateRequested  TokenState = "requested"
	StateDenied     TokenState = "denied"
	StateAuthorized TokenState = "authorized"
	StateExchanged  TokenState = "exchanged"
	StateActive     TokenState = "active"
	StateRevoked    TokenState = "revoked"
	StateCorrupt    TokenState = "corrupt"
)

// OAuthToken holds both request and access tokens.
type OAuthToken struct {
	ID                  int64         `gorm:"primaryKey;autoIncrement"`
	Token               string        `gorm:"uniqueIndex;not null;size:64"`
	Secret              string        `gorm:"not null;size:64"`
	Kind                TokenKind     `gorm:"type:varchar(16);not null;index"`
	Variant             Variant       `gorm:"type:varchar(8);not null"`
	ClientApplicationID int64         `gorm:"not null;index"`
	UserID              *string       `gorm:"index"`
	Permissions         PermissionSet `gorm:"type:varchar(255);not null"`
	CallbackURL         string
	Verifier            string `gorm:"size:64"`
	CreatedAt           time.Time
	AuthorizedAt        *time.Time
	InvalidatedAt       *time.Time `gorm:"index"`
	Version             int64      `gorm:"not null;default:0"`

	ClientApplication *ClientApplication `gorm:"foreignKey:ClientApplicationID"`
}

// State derives the lifecycle state.
func (t *OAuthToken) State() TokenState {
	authorized := t.AuthorizedAt != nil
	invalidated := t.InvalidatedAt != nil

	switch t.Kind {
	case TokenKindRequest:
		switch {
		case !authorized && !invalidated:
			return StateRequested
		case !authorized && invalidated:
			return StateDenied
		case authorized && !invalidated:
			return StateAuthorized
		default:
			return StateExchanged
		}
	case TokenKindAccess:
		switch {
		case authorized && !invalidated:
			return StateActive
		case authorized && invalidated:
			return StateRevoked
		}
	}
	return StateCorrupt
}

// IsRequestToken returns true if token kind is 'request'
func (t *OAuthToken) IsRequestToken() bool {
	return t.Kind == TokenKindRequest
}

// IsAccessToken returns true if token kind is 'access'
func (t *OAuthToken) IsAccessToken() bool {
	return t.Kind == TokenKindAccess
}

// IsOutOfBand returns true if the client asked for no redirect
func (t *OAuthToken) IsOutOfBand() bool {
	return t.CallbackURL == CallbackOutOfBand
}

// OwnedBy reports whether the token belongs to userID.
func (t *OAuthToken) OwnedBy(userID string) bool {
	return t.UserID != nil && *t.UserID == userID
}

// TableName overrides the table name used by OAuthToken to `oauth_tokens`
func (OAuthToken) TableName() string {
	return "oauth_tokens"
}
