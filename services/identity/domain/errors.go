package domain

import "errors"

// Sentinel errors for the identity domain. Use errors.Is() to check these.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidUser       = errors.New("invalid user")

	// ErrInvalidCredentials covers unknown emails, wrong passwords and
	// inactive users alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
