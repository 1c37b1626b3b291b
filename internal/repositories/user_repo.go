package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BradenHooton/gymcrm/internal/database"
	"github.com/BradenHooton/gymcrm/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, username, password_hash, first_name, last_name, is_active, created_at`

type UserRepository struct {
	db  database.TxQuerier
	now func() time.Time
}

func NewUserRepository(db database.TxQuerier) *UserRepository {
	return &UserRepository{db: db, now: time.Now}
}

// rowScanner interface for scanning user rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	err := scanner.Scan(
		&user.ID, &user.Username, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.IsActive, &user.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &user, nil
}

// GetByUsername returns models.ErrUserNotFound when no row matches
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	user, err := scanUserRow(r.db.QueryRow(ctx, query, username))
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// Create inserts a credential record, assigning ID and CreatedAt when empty.
// Any ledger row left behind for the username is removed in the same transaction.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.now().UTC()
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	err := database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query,
			user.ID, user.Username, user.PasswordHash,
			user.FirstName, user.LastName, user.IsActive, user.CreatedAt,
		); err != nil {
			return database.MapPostgresError(err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM login_attempts WHERE username = $1`, user.Username); err != nil {
			return fmt.Errorf("failed to clear login attempts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}
