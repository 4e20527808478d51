package services

import "errors"

// Token engine errors. Handlers map them to HTTP statuses; services never
// retry on any of them.
var (
	ErrInvalidClient     = errors.New("invalid client credentials")
	ErrTokenNotFound     = errors.New("token not found")
	ErrInvalidTokenState = errors.New("invalid token state")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotTokenOwner     = errors.New("token belongs to another user")
	ErrInvalidCallback   = errors.New("invalid callback url")
)

// User errors.
var (
	ErrInvalidCredentials      = errors.New("invalid display name or password")
	ErrUserNotFound            = errors.New("user not found")
	ErrAccountBlocked          = errors.New("account is suspended or hidden")
	ErrInvalidStatusTransition = errors.New("invalid account status transition")
)

// Resource errors.
var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNoteClosed       = errors.New("note is already closed")
	ErrNotResourceOwner = errors.New("resource belongs to another user")
)
