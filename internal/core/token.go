package core

// SignatureProof is a signed request reduced to what the token engine needs:
// the consumer it claims to come from, and a way to check its signature
// once the secrets are known.
type SignatureProof interface {
	// ConsumerKey is the oauth_consumer_key the request was signed with.
	ConsumerKey() string

	// Verify reports whether the signature is valid for the given
	// consumer secret and token secret.
	Verify(consumerSecret, tokenSecret string) bool
}
