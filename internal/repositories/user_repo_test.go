package repositories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BradenHooton/gymcrm/internal/models"
	"github.com/BradenHooton/gymcrm/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "username", "password_hash", "first_name", "last_name", "is_active", "created_at"}

func TestUserRepository_GetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repositories.NewUserRepository(mock)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, password_hash").
			WithArgs("alice").
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-1", "alice", "$2a$04$hash", "Alice", "Nguyen", true, time.Now()))

		user, err := r.GetByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "user-1", user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.True(t, user.IsActive)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, password_hash").
			WithArgs("ghost").
			WillReturnError(pgx.ErrNoRows)

		user, err := r.GetByUsername(ctx, "ghost")
		assert.ErrorIs(t, err, models.ErrUserNotFound)
		assert.Nil(t, user)
	})

	t.Run("database error", func(t *testing.T) {
		mock.ExpectQuery("SELECT id, username, password_hash").
			WithArgs("alice").
			WillReturnError(errors.New("db error"))

		_, err := r.GetByUsername(ctx, "alice")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, models.ErrUserNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	r := repositories.NewUserRepository(mock)
	ctx := context.Background()

	t.Run("assigns id and timestamp", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "trainer_joe", "hash", "Joe", "Lift", true, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec("DELETE FROM login_attempts").
			WithArgs("trainer_joe").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectCommit()

		user, err := r.Create(ctx, &models.User{
			Username: "trainer_joe", PasswordHash: "hash", FirstName: "Joe", LastName: "Lift", IsActive: true,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("duplicate username", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "trainer_joe", "hash", "", "", true, pgxmock.AnyArg()).
			WillReturnError(&pgconn.PgError{Code: "23505"})
		mock.ExpectRollback()

		_, err := r.Create(ctx, &models.User{Username: "trainer_joe", PasswordHash: "hash", IsActive: true})
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	r := repositories.NewMemoryUserRepository()

	_, err := r.GetByUsername(ctx, "alice")
	assert.ErrorIs(t, err, models.ErrUserNotFound)

	created, err := r.Create(ctx, &models.User{Username: "alice", PasswordHash: "hash", IsActive: true})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = r.Create(ctx, &models.User{Username: "alice"})
	assert.ErrorIs(t, err, models.ErrConflict)

	found, err := r.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
