package oauth1

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-authgate/oauth1gate/internal/core"
)

// Validator enforces the timestamp window and nonce uniqueness of signed
// requests. Signatures themselves are checked by the token services once
// the consumer and token secrets are known.
type Validator struct {
	nonces   core.Cache[int64]
	skew     time.Duration
	nonceTTL time.Duration
	now      func() time.Time
}

// NewValidator creates a validator backed by the given nonce cache.
// nonceTTL should be at least skew so a nonce outlives its timestamp window.
func NewValidator(nonces core.Cache[int64], skew, nonceTTL time.Duration) *Validator {
	return &Validator{
		nonces:   nonces,
		skew:     skew,
		nonceTTL: nonceTTL,
		now:      time.Now,
	}
}

// Check rejects stale timestamps and replayed nonces. PLAINTEXT requests
// without a timestamp skip both checks.
func (v *Validator) Check(ctx context.Context, r *Request) error {
	if r.Timestamp == 0 && r.SignatureMethod == MethodPlaintext {
		return nil
	}

	now := v.now()
	ts := time.Unix(r.Timestamp, 0)
	if ts.Before(now.Add(-v.skew)) || ts.After(now.Add(v.skew)) {
		return fmt.Errorf("%w: %s", ErrTimestampOutOfWindow, ts.UTC().Format(time.RFC3339))
	}

	if r.Nonce == "" {
		return nil
	}
	stored, err := v.nonces.SetIfAbsent(ctx, nonceKey(r), r.Timestamp, v.nonceTTL)
	if err != nil {
		return fmt.Errorf("nonce cache: %w", err)
	}
	if !stored {
		return ErrNonceReused
	}
	return nil
}

// nonceKey scopes a nonce to its consumer, token and timestamp.
func nonceKey(r *Request) string {
	return "oauth1:nonce:" + r.ConsumerKeyValue + ":" + r.Token + ":" +
		strconv.FormatInt(r.Timestamp, 10) + ":" + r.Nonce
}
