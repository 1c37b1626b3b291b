package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/BradenHooton/gymcrm/internal/models"
	pkgauth "github.com/BradenHooton/gymcrm/pkg/auth"
	pkglogger "github.com/BradenHooton/gymcrm/pkg/logger"
)

// UserStore defines the credential operations needed to provision accounts
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
}

// UserService provisions credential records
type UserService struct {
	repo       UserStore
	logger     *slog.Logger
	env        string
	bcryptCost int
}

// NewUserService creates a new UserService
func NewUserService(repo UserStore, logger *slog.Logger, env string) *UserService {
	return &UserService{
		repo:       repo,
		logger:     logger,
		env:        env,
		bcryptCost: pkgauth.BcryptCost,
	}
}

// EnsureUser creates an active account for username unless one already exists.
// The password must pass pkgauth.ValidatePassword and is scrubbed before returning.
func (s *UserService) EnsureUser(ctx context.Context, username string, password []byte) (bool, error) {
	return pkgauth.WithSecret(password, func(secret []byte) (bool, error) {
		_, err := s.repo.GetByUsername(ctx, username)
		if err == nil {
			s.logger.Info("user already exists, skipping creation", pkglogger.UsernameAttr(username, s.env))
			return false, nil
		}
		if !errors.Is(err, models.ErrUserNotFound) && !errors.Is(err, models.ErrNotFound) {
			return false, fmt.Errorf("failed to check if user exists: %w", err)
		}

		if err := pkgauth.ValidatePassword(secret); err != nil {
			return false, err
		}

		hash, err := pkgauth.HashPasswordWithCost(secret, s.bcryptCost)
		if err != nil {
			return false, fmt.Errorf("failed to hash password: %w", err)
		}

		if _, err := s.repo.Create(ctx, &models.User{
			Username:     username,
			PasswordHash: hash,
			IsActive:     true,
		}); err != nil {
			return false, fmt.Errorf("failed to create user: %w", err)
		}

		s.logger.Info("user created", pkglogger.UsernameAttr(username, s.env))
		return true, nil
	})
}
