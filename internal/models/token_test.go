package models

import (
	"testing"
	"time"
)

func TestOAuthToken_State(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name          string
		kind          TokenKind
		authorizedAt  *time.Time
		invalidatedAt *time.Time
		want          TokenState
	}{
		{name: "requested", kind: TokenKindRequest, want: StateRequested},
		{name: "denied", kind: TokenKindRequest, invalidatedAt: &now, want: StateDenied},
		{name: "authorized", kind: TokenKindRequest, authorizedAt: &now, want: StateAuthorized},
		{
			name:          "exchanged",
			kind:          TokenKindRequest,
			authorizedAt:  &now,
			invalidatedAt: &now,
			want:          StateExchanged,
		},
		{name: "active", kind: TokenKindAccess, authorizedAt: &now, want: StateActive},
		{
			name:          "revoked",
			kind:          TokenKindAccess,
			authorizedAt:  &now,
			invalidatedAt: &now,
			want:          StateRevoked,
		},
		{name: "access without authorization", kind: TokenKindAccess, want: StateCorrupt},
		{name: "unknown kind", kind: TokenKind("refresh"), authorizedAt: &now, want: StateCorrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := &OAuthToken{
				Kind:          tt.kind,
				AuthorizedAt:  tt.authorizedAt,
				InvalidatedAt: tt.invalidatedAt,
			}
			if got := tok.State(); got != tt.want {
				t.Errorf("State() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOAuthToken_OwnedBy(t *testing.T) {
	owner := "user-1"
	tok := &OAuthToken{UserID: &owner}
	if !tok.OwnedBy("user-1") {
		t.Error("expected token to be owned by user-1")
	}
	if tok.OwnedBy("user-2") {
		t.Error("expected token not to be owned by user-2")
	}
	if (&OAuthToken{}).OwnedBy("user-1") {
		t.Error("unauthorized token has no owner")
	}
}

func TestOAuthToken_IsOutOfBand(t *testing.T) {
	if !(&OAuthToken{CallbackURL: "oob"}).IsOutOfBand() {
		t.Error("oob callback should be out of band")
	}
	if (&OAuthToken{CallbackURL: "http://example.org/cb"}).IsOutOfBand() {
		t.Error("URL callback is not out of band")
	}
}
