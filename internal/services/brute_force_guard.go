package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/BradenHooton/gymcrm/internal/metrics"
	"github.com/BradenHooton/gymcrm/internal/models"
	pkglogger "github.com/BradenHooton/gymcrm/pkg/logger"
)

// Lockout defaults
const (
	DefaultMaxAttempts   = 3
	DefaultBlockDuration = 5 * time.Minute
)

// LoginAttemptStore defines the persistence operations for attempt records
type LoginAttemptStore interface {
	Find(ctx context.Context, username string) (*models.LoginAttempt, error)
	Save(ctx context.Context, attempt *models.LoginAttempt) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// LockoutConfig holds configuration for the lockout policy
type LockoutConfig struct {
	MaxAttempts   int
	BlockDuration time.Duration
	// SerializePerUsername holds a per-username lock across each read-modify-write.
	// Without it concurrent failures for one username can overwrite each other.
	SerializePerUsername bool
}

// DefaultLockoutConfig returns 3 attempts, a 5 minute block, serialized updates
func DefaultLockoutConfig() LockoutConfig {
	return LockoutConfig{
		MaxAttempts:          DefaultMaxAttempts,
		BlockDuration:        DefaultBlockDuration,
		SerializePerUsername: true,
	}
}

// BruteForceGuard tracks consecutive failed logins per username and blocks
// a username for BlockDuration once MaxAttempts is reached.
//
// States: CLEAN (no record or count 0), WARNING (0 < count < max),
// BLOCKED (is_blocked and blocked_until in the future). A block that has
// passed its deadline is cleared lazily by the next failure or success.
type BruteForceGuard struct {
	store   LoginAttemptStore
	config  LockoutConfig
	locks   *keyedMutex
	logger  *slog.Logger
	metrics *metrics.Metrics
	env     string
	now     func() time.Time
}

// GuardOption configures a BruteForceGuard
type GuardOption func(*BruteForceGuard)

// WithGuardClock overrides the time source
func WithGuardClock(now func() time.Time) GuardOption {
	return func(g *BruteForceGuard) {
		g.now = now
	}
}

// WithGuardMetrics records lockouts and purges
func WithGuardMetrics(m *metrics.Metrics) GuardOption {
	return func(g *BruteForceGuard) {
		g.metrics = m
	}
}

// WithGuardEnv masks usernames in logs when env is production
func WithGuardEnv(env string) GuardOption {
	return func(g *BruteForceGuard) {
		g.env = env
	}
}

// NewBruteForceGuard creates a new BruteForceGuard. Zero config values fall back to defaults.
func NewBruteForceGuard(store LoginAttemptStore, config LockoutConfig, logger *slog.Logger, opts ...GuardOption) *BruteForceGuard {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = DefaultBlockDuration
	}

	g := &BruteForceGuard{
		store:  store,
		config: config,
		locks:  newKeyedMutex(),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the effective lockout configuration
func (g *BruteForceGuard) Config() LockoutConfig {
	return g.config
}

// lock serializes read-modify-write cycles for username when configured
func (g *BruteForceGuard) lock(username string) func() {
	if !g.config.SerializePerUsername {
		return func() {}
	}
	return g.locks.Lock(username)
}

// CheckIfBlocked returns *models.AccountBlockedError while username is blocked.
// An expired block is logged and left for the next write to clear.
func (g *BruteForceGuard) CheckIfBlocked(ctx context.Context, username string) error {
	attempt, err := g.store.Find(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to load login attempt: %w", err)
	}
	if attempt == nil || !attempt.IsBlocked {
		return nil
	}

	now := g.now()
	if attempt.BlockActive(now) {
		minutes := MinutesRemaining(*attempt.BlockedUntil, now)
		g.logger.Warn("login rejected: account blocked",
			pkglogger.UsernameAttr(username, g.env),
			slog.Int64("minutes_remaining", minutes))
		return &models.AccountBlockedError{MinutesRemaining: minutes}
	}

	g.logger.Info("block expired, allowing attempt",
		pkglogger.UsernameAttr(username, g.env))
	return nil
}

// RecordFailedAttempt increments the failure counter, blocking username once
// the counter reaches MaxAttempts. An expired block is cleared first.
func (g *BruteForceGuard) RecordFailedAttempt(ctx context.Context, username string) error {
	unlock := g.lock(username)
	defer unlock()

	attempt, err := g.store.Find(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to load login attempt: %w", err)
	}

	now := g.now()
	if attempt == nil {
		attempt = &models.LoginAttempt{Username: username}
	} else if attempt.BlockExpired(now) {
		attempt.Reset(now)
	}

	attempt.AttemptCount++
	attempt.LastAttemptTime = now

	if attempt.AttemptCount >= g.config.MaxAttempts {
		wasBlocked := attempt.IsBlocked
		until := now.Add(g.config.BlockDuration)
		attempt.IsBlocked = true
		attempt.BlockedUntil = &until

		if !wasBlocked {
			g.metrics.IncrementLockouts()
			g.logger.Warn("account blocked after repeated failed logins",
				pkglogger.UsernameAttr(username, g.env),
				slog.Int("attempt_count", attempt.AttemptCount),
				slog.Time("blocked_until", until))
		}
	}

	if err := g.store.Save(ctx, attempt); err != nil {
		return fmt.Errorf("failed to save login attempt: %w", err)
	}
	return nil
}

// ResetAttempts clears the counter and any block. No-op when no record exists.
func (g *BruteForceGuard) ResetAttempts(ctx context.Context, username string) error {
	unlock := g.lock(username)
	defer unlock()

	attempt, err := g.store.Find(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to load login attempt: %w", err)
	}
	if attempt == nil {
		return nil
	}

	attempt.Reset(g.now())
	if err := g.store.Save(ctx, attempt); err != nil {
		return fmt.Errorf("failed to save login attempt: %w", err)
	}
	return nil
}

// GetRemainingAttempts returns how many failures username has left before a block
func (g *BruteForceGuard) GetRemainingAttempts(ctx context.Context, username string) (int, error) {
	attempt, err := g.store.Find(ctx, username)
	if err != nil {
		return 0, fmt.Errorf("failed to load login attempt: %w", err)
	}
	if attempt == nil {
		return g.config.MaxAttempts, nil
	}
	if attempt.IsBlocked {
		return 0, nil
	}
	return max(0, g.config.MaxAttempts-attempt.AttemptCount), nil
}

// CleanupExpiredBlocks purges records whose block has ended
func (g *BruteForceGuard) CleanupExpiredBlocks(ctx context.Context) (int64, error) {
	purged, err := g.store.PurgeExpired(ctx, g.now())
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired blocks: %w", err)
	}
	g.metrics.AddExpiredBlocksPurged(purged)
	return purged, nil
}

// MinutesRemaining rounds the time left up to whole minutes and adds one minute of margin
func MinutesRemaining(blockedUntil, now time.Time) int64 {
	return int64(math.Ceil(blockedUntil.Sub(now).Minutes())) + 1
}
