package cache

import "errors"

// Backends wrap the underlying failure with one of these so callers can
// branch with errors.Is.
var (
	// ErrCacheMiss: no live entry under the key.
	ErrCacheMiss = errors.New("cache: key not found")
	// ErrCacheUnavailable: the backend could not be reached. Nonce checks
	// surface this as 503 rather than accepting the request.
	ErrCacheUnavailable = errors.New("cache: backend unavailable")
	// ErrInvalidValue: the stored bytes do not decode into the value type.
	ErrInvalidValue = errors.New("cache: invalid value")
)
