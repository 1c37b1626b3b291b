package database

import (
	"context"
	"errors"

	"github.com/BradenHooton/gymcrm/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes mapped to domain errors
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeNotNullViolation    = "23502"
	codeCheckViolation      = "23514"
)

func MapPostgresError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return models.ErrConflict
		case codeForeignKeyViolation, codeNotNullViolation, codeCheckViolation:
			return models.ErrBadRequest
		}
	}

	return err
}

// Beginner starts transactions; satisfied by pgxpool.Pool and pgxmock pools
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxQuerier is a Querier that can also start transactions
type TxQuerier interface {
	Querier
	Beginner
}

// WithTransaction runs fn in a transaction, committing on success and rolling back on error or panic
func WithTransaction(ctx context.Context, db Beginner, fn func(pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}
