package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/BradenHooton/gymcrm/internal/models"
)

// MemoryLoginAttemptRepository keeps attempt records in a map.
// Records are copied on the way in and out so callers never share state with the store.
type MemoryLoginAttemptRepository struct {
	mu       sync.RWMutex
	attempts map[string]*models.LoginAttempt
}

func NewMemoryLoginAttemptRepository() *MemoryLoginAttemptRepository {
	return &MemoryLoginAttemptRepository{attempts: make(map[string]*models.LoginAttempt)}
}

func (r *MemoryLoginAttemptRepository) Find(_ context.Context, username string) (*models.LoginAttempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.attempts[username].Clone(), nil
}

func (r *MemoryLoginAttemptRepository) Save(_ context.Context, attempt *models.LoginAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.attempts[attempt.Username] = attempt.Clone()
	return nil
}

func (r *MemoryLoginAttemptRepository) PurgeExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var purged int64
	for username, attempt := range r.attempts {
		if attempt.IsBlocked && attempt.BlockedUntil != nil && attempt.BlockedUntil.Before(now) {
			delete(r.attempts, username)
			purged++
		}
	}
	return purged, nil
}

// Len returns the number of stored records
func (r *MemoryLoginAttemptRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.attempts)
}
