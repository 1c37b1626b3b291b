package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BradenHooton/gymcrm/internal/config"
	"github.com/BradenHooton/gymcrm/internal/database"
	_ "github.com/lib/pq"
)

func main() {
	command := flag.String("command", "up", "migration command: up, down, status, version, reset")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(*command, logger); err != nil {
		logger.Error("migration failed", slog.String("command", *command), slog.Any("error", err))
		os.Exit(1)
	}
}

func run(command string, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	migrator, err := database.NewMigrator(db, logger)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		return migrator.Up(ctx)
	case "down":
		return migrator.Down(ctx)
	case "reset":
		return migrator.Reset(ctx)
	case "status":
		return migrator.Status(ctx)
	case "version":
		version, err := migrator.Version(ctx)
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		logger.Info("current migration version", slog.Int64("version", version))
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
