package models

import "time"

// LoginAttempt is the per-username record of consecutive failed logins and block state
type LoginAttempt struct {
	Username        string     `db:"username"`
	AttemptCount    int        `db:"attempt_count"`
	IsBlocked       bool       `db:"is_blocked"`
	BlockedUntil    *time.Time `db:"blocked_until"` // Set only while IsBlocked
	LastAttemptTime time.Time  `db:"last_attempt_time"`
}

// BlockExpired reports whether the record is blocked but its block window has passed
func (a *LoginAttempt) BlockExpired(now time.Time) bool {
	return a.IsBlocked && a.BlockedUntil != nil && !now.Before(*a.BlockedUntil)
}

// BlockActive reports whether the record is blocked at the given instant
func (a *LoginAttempt) BlockActive(now time.Time) bool {
	return a.IsBlocked && a.BlockedUntil != nil && now.Before(*a.BlockedUntil)
}

// Reset clears the failure counter and block state
func (a *LoginAttempt) Reset(now time.Time) {
	a.AttemptCount = 0
	a.IsBlocked = false
	a.BlockedUntil = nil
	a.LastAttemptTime = now
}

// Clone returns a deep copy of the record
func (a *LoginAttempt) Clone() *LoginAttempt {
	if a == nil {
		return nil
	}
	c := *a
	if a.BlockedUntil != nil {
		until := *a.BlockedUntil
		c.BlockedUntil = &until
	}
	return &c
}
