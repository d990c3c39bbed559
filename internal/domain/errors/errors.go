package errors

import "errors"

// Sentinel errors for handlers to map to HTTP status.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken covers malformed, tampered and expired bearer tokens
	// alike; callers must not learn which.
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNoSuchEntity     = errors.New("no such entity")
	ErrEmailTaken       = errors.New("email already taken")
	ErrTokenExpired     = errors.New("token expired")
	ErrEmailConfirmed   = errors.New("email already confirmed")
	ErrUserNotFound     = errors.New("user not found")
)
