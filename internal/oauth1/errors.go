package oauth1

import "errors"

var (
	// ErrMalformedRequest indicates missing, duplicated or unparsable OAuth parameters
	ErrMalformedRequest = errors.New("oauth1: malformed request")

	// ErrUnsupportedMethod indicates an oauth_signature_method other than HMAC-SHA1 or PLAINTEXT
	ErrUnsupportedMethod = errors.New("oauth1: unsupported signature method")

	// ErrTimestampOutOfWindow indicates oauth_timestamp is too far from the server clock
	ErrTimestampOutOfWindow = errors.New("oauth1: timestamp out of window")

	// ErrNonceReused indicates the nonce was already seen for this timestamp
	ErrNonceReused = errors.New("oauth1: nonce already used")

	// ErrInvalidSignature indicates the signature did not match
	ErrInvalidSignature = errors.New("oauth1: invalid signature")
)

// FailureReason maps an oauth1 error to a short metrics label.
func FailureReason(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedMethod):
		return "method"
	case errors.Is(err, ErrTimestampOutOfWindow):
		return "timestamp"
	case errors.Is(err, ErrNonceReused):
		return "nonce"
	case errors.Is(err, ErrInvalidSignature):
		return "signature"
	default:
		return "malformed"
	}
}
