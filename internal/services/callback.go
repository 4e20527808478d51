package services

import (
	"net/url"

	"github.com/go-authgate/oauth1gate/internal/models"
	"github.com/go-authgate/oauth1gate/internal/util"
)

// ResolveRedirect returns where the end user goes after approving token.
// A static client callback always wins; otherwise the token's own callback
// is used unless it is absent or "oob", in which case ok is false and the
// verifier (1.0a) must be shown to the user instead.
//
// The token identifier is always appended; 1.0a tokens also carry
// oauth_verifier.
func ResolveRedirect(token *models.OAuthToken, client *models.ClientApplication) (string, bool) {
	target := ""
	switch {
	case client != nil && client.HasStaticCallback():
		target = client.CallbackURL
	case token.CallbackURL != "" && !token.IsOutOfBand():
		target = token.CallbackURL
	default:
		return "", false
	}

	query := url.Values{"oauth_token": {token.Token}}
	if token.Variant == models.Variant10a {
		query.Set("oauth_verifier", token.Verifier)
	}

	redirect, err := util.AppendQuery(target, query)
	if err != nil {
		return "", false
	}
	return redirect, true
}

// validateCallback accepts "oob" and absolute http(s) URLs.
func validateCallback(callback string) error {
	if callback == "" || callback == models.CallbackOutOfBand || util.IsAbsoluteHTTPURL(callback) {
		return nil
	}
	return ErrInvalidCallback
}
