package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/gymcrm/internal/models"
	"github.com/google/uuid"
)

// MemoryUserRepository is a map-backed credential store
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.User)}
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[username]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &user, nil
}

// Create returns models.ErrConflict when the username is taken
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return nil, models.ErrConflict
	}
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	r.users[user.Username] = *user
	return user, nil
}
