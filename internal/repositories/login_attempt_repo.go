package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/gymcrm/internal/database"
	"github.com/BradenHooton/gymcrm/internal/models"
	"github.com/jackc/pgx/v5"
)

// LoginAttemptRepository persists per-username attempt records in Postgres.
// It carries no lockout rules.
type LoginAttemptRepository struct {
	db database.Querier
}

// NewLoginAttemptRepository creates a new LoginAttemptRepository
func NewLoginAttemptRepository(db database.Querier) *LoginAttemptRepository {
	return &LoginAttemptRepository{db: db}
}

// Find returns the record for username, or nil when none exists
func (r *LoginAttemptRepository) Find(ctx context.Context, username string) (*models.LoginAttempt, error) {
	query := `
		SELECT username, attempt_count, is_blocked, blocked_until, last_attempt_time
		FROM login_attempts
		WHERE username = $1
	`

	var attempt models.LoginAttempt
	err := r.db.QueryRow(ctx, query, username).Scan(
		&attempt.Username,
		&attempt.AttemptCount,
		&attempt.IsBlocked,
		&attempt.BlockedUntil,
		&attempt.LastAttemptTime,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find login attempt: %w", err)
	}

	return &attempt, nil
}

// Save upserts the record keyed by username
func (r *LoginAttemptRepository) Save(ctx context.Context, attempt *models.LoginAttempt) error {
	query := `
		INSERT INTO login_attempts (username, attempt_count, is_blocked, blocked_until, last_attempt_time)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (username) DO UPDATE SET
			attempt_count = EXCLUDED.attempt_count,
			is_blocked = EXCLUDED.is_blocked,
			blocked_until = EXCLUDED.blocked_until,
			last_attempt_time = EXCLUDED.last_attempt_time
	`

	_, err := r.db.Exec(ctx, query,
		attempt.Username,
		attempt.AttemptCount,
		attempt.IsBlocked,
		attempt.BlockedUntil,
		attempt.LastAttemptTime,
	)
	if err != nil {
		return fmt.Errorf("failed to save login attempt: %w", database.MapPostgresError(err))
	}

	return nil
}

// PurgeExpired deletes blocked records whose block ended before now
func (r *LoginAttemptRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM login_attempts WHERE is_blocked AND blocked_until < $1`

	result, err := r.db.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired blocks: %w", err)
	}

	return result.RowsAffected(), nil
}
