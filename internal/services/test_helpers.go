package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/gymcrm/internal/models"
)

// discardLogger returns a logger that drops all output
func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// testClock is a manually advanced time source
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockUserRepository implements UserRepository and UserStore for testing
type MockUserRepository struct {
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	CreateFunc        func(ctx context.Context, user *models.User) (*models.User, error)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrUserNotFound
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return user, nil
}

// MockLoginAttemptStore implements LoginAttemptStore for testing
type MockLoginAttemptStore struct {
	FindFunc         func(ctx context.Context, username string) (*models.LoginAttempt, error)
	SaveFunc         func(ctx context.Context, attempt *models.LoginAttempt) error
	PurgeExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

func (m *MockLoginAttemptStore) Find(ctx context.Context, username string) (*models.LoginAttempt, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, username)
	}
	return nil, nil
}

func (m *MockLoginAttemptStore) Save(ctx context.Context, attempt *models.LoginAttempt) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, attempt)
	}
	return nil
}

func (m *MockLoginAttemptStore) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	if m.PurgeExpiredFunc != nil {
		return m.PurgeExpiredFunc(ctx, now)
	}
	return 0, nil
}

// MockTokenIssuer implements TokenIssuer for testing
type MockTokenIssuer struct {
	GenerateTokenFunc func(username string) (string, error)
}

func (m *MockTokenIssuer) GenerateToken(username string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(username)
	}
	return "token-for-" + username, nil
}
