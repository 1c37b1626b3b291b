package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Authentication errors
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountBlocked     = errors.New("account is temporarily blocked")

	// Token errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// AccountBlockedError is returned while a username is locked out.
// MinutesRemaining is always rounded up and padded by one minute.
type AccountBlockedError struct {
	MinutesRemaining int64
}

func (e *AccountBlockedError) Error() string {
	return fmt.Sprintf("account is blocked due to too many failed login attempts, try again in %d minutes", e.MinutesRemaining)
}

func (e *AccountBlockedError) Is(target error) bool {
	return target == ErrAccountBlocked
}

// InvalidCredentialsError reports a failed password check.
// RemainingAttempts is zero once the account has run out of attempts.
type InvalidCredentialsError struct {
	RemainingAttempts int
}

func (e *InvalidCredentialsError) Error() string {
	if e.RemainingAttempts > 0 {
		return fmt.Sprintf("invalid username or password, %d attempts remaining", e.RemainingAttempts)
	}
	return ErrInvalidCredentials.Error()
}

func (e *InvalidCredentialsError) Is(target error) bool {
	return target == ErrInvalidCredentials
}
