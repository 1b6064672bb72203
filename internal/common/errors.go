// Package common defines sentinel errors and constants shared by the
// server layers. Callers should match errors with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorValidation   = errors.New("validation error")

	// Password reset errors.
	ErrRecoveryAnswerMismatch = errors.New("recovery answer mismatch")
	ErrPasswordMismatch       = errors.New("password mismatch")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Startup errors.
	ErrConfigurationMissing = errors.New("configuration missing")
)
