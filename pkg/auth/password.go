package auth

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	BcryptCost     = 14 // OWASP 2026 recommendation
	MinPasswordLen = 8
	MaxPasswordLen = 72 // bcrypt ignores bytes past 72
)

// PasswordValidationError holds validation error details (internal use only)
type PasswordValidationError struct {
	Errors []string
}

func (e *PasswordValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "password validation failed"
	}
	return "invalid password: " + strings.Join(e.Errors, "; ")
}

var commonPasswords = map[string]bool{
	"password":    true,
	"12345678":    true,
	"password123": true,
	"qwerty123":   true,
	"letmein":     true,
	"welcome1":    true,
	"trainer123":  true,
	"gym12345":    true,
}

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// HashPassword hashes a plaintext password with the default cost
func HashPassword(password []byte) (string, error) {
	return HashPasswordWithCost(password, BcryptCost)
}

// HashPasswordWithCost hashes a plaintext password with an explicit bcrypt cost
func HashPasswordWithCost(password []byte, cost int) (string, error) {
	if len(password) == 0 {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword(password, cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// ComparePassword compares a bcrypt hash with a plaintext candidate
func ComparePassword(hashedPassword string, password []byte) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), password)
}

// CompareDummyPassword burns the same bcrypt work as a real comparison.
// Used when no credential exists so that unknown usernames are not faster to reject.
func CompareDummyPassword(password []byte) {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("gymcrm-dummy-password"), BcryptCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, password)
}

// ValidatePassword enforces password strength for seeded credentials
func ValidatePassword(password []byte) error {
	errors := make([]string, 0)

	if len(password) < MinPasswordLen {
		errors = append(errors, fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	if len(password) > MaxPasswordLen {
		errors = append(errors, fmt.Sprintf("must be at most %d characters", MaxPasswordLen))
	}

	hasUpper, hasLower, hasDigit := false, false, false
	for _, r := range string(password) {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	if !hasUpper {
		errors = append(errors, "must contain at least one uppercase letter")
	}
	if !hasLower {
		errors = append(errors, "must contain at least one lowercase letter")
	}
	if !hasDigit {
		errors = append(errors, "must contain at least one digit")
	}

	if commonPasswords[strings.ToLower(string(password))] {
		errors = append(errors, "is too common")
	}

	if len(errors) > 0 {
		return &PasswordValidationError{Errors: errors}
	}

	return nil
}
