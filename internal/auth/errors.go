package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid display name or password")
	ErrPasswordTooShort   = errors.New("password is too short")
)
