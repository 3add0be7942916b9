package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrSessionNotFound = errors.New("session not found")

	ErrUsernameEmpty   = errors.New("username must not be empty")
	ErrPasswordTooWeak = errors.New("password must be at least 6 characters long")

	// Returned on login for unknown user and wrong password alike
	// so the response never tells whether the username exists
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrAuthRequired = errors.New("authentication required")
)
