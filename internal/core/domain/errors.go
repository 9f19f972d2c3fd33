package domain

import "errors"

var (
	// ErrEmailTaken is returned when a registration reuses an existing email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// that login responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("forbidden")

	// ErrPasswordTooLong reports a password over bcrypt's 72-byte input
	// limit. Schema validation counts runes, so a multi-byte password can
	// slip past it and still exceed the byte limit.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)
