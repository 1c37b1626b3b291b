package models

import (
	"time"
)

// User is the credential record of a gym member (trainer or trainee).
// The auth core only ever reads it.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	IsActive     bool
	CreatedAt    time.Time
}
