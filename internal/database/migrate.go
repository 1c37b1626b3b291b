package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/gymcrm/migrations"
	"github.com/pressly/goose/v3"
)

const dialect = "postgres"

// Migrator applies the embedded schema migrations through goose
type Migrator struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewMigrator(db *sql.DB, logger *slog.Logger) (*Migrator, error) {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(dialect); err != nil {
		return nil, fmt.Errorf("failed to set dialect: %w", err)
	}
	return &Migrator{db: db, logger: logger}, nil
}

func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	m.log(ctx, "migrations applied")
	return nil
}

func (m *Migrator) Down(ctx context.Context) error {
	if err := goose.DownContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("failed to rollback migrations: %w", err)
	}
	m.log(ctx, "migration rolled back")
	return nil
}

func (m *Migrator) Reset(ctx context.Context) error {
	if err := goose.ResetContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("failed to reset migrations: %w", err)
	}
	return m.Up(ctx)
}

func (m *Migrator) Status(ctx context.Context) error {
	if err := goose.StatusContext(ctx, m.db, "."); err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}
	return nil
}

func (m *Migrator) Version(ctx context.Context) (int64, error) {
	return goose.GetDBVersionContext(ctx, m.db)
}

func (m *Migrator) log(ctx context.Context, msg string) {
	if m.logger == nil {
		return
	}
	version, err := m.Version(ctx)
	if err != nil {
		m.logger.Warn(msg, slog.String("error", err.Error()))
		return
	}
	m.logger.Info(msg, slog.Int64("version", version))
}
