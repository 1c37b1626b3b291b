package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BradenHooton/gymcrm/internal/metrics"
)

// BlockCleaner purges attempt records whose block has expired
type BlockCleaner interface {
	CleanupExpiredBlocks(ctx context.Context) (int64, error)
}

// CleanupManager periodically removes expired login blocks
type CleanupManager struct {
	cleaner  BlockCleaner
	logger   *slog.Logger
	metrics  *metrics.Metrics
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// DefaultCleanupInterval is used when a non-positive interval is given
const DefaultCleanupInterval = 10 * time.Minute

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(
	cleaner BlockCleaner,
	logger *slog.Logger,
	m *metrics.Metrics,
	interval time.Duration,
) *CleanupManager {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &CleanupManager{
		cleaner:  cleaner,
		logger:   logger,
		metrics:  m,
		interval: interval,
		timeout:  30 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start runs a cleanup immediately and then every interval until ctx is
// cancelled or Stop is called. It always returns nil so it can run under an errgroup.
func (cm *CleanupManager) Start(ctx context.Context) error {
	ticker := time.NewTicker(cm.interval)
	defer ticker.Stop()

	// Run immediately on startup
	cm.runCleanup(ctx)

	for {
		select {
		case <-ticker.C:
			cm.runCleanup(ctx)
		case <-cm.stopCh:
			cm.logger.Info("cleanup manager stopped")
			return nil
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return nil
		}
	}
}

// runCleanup removes expired blocks from the ledger
func (cm *CleanupManager) runCleanup(ctx context.Context) {
	start := time.Now()
	cleanupCtx, cancel := context.WithTimeout(ctx, cm.timeout)
	defer cancel()

	purged, err := cm.cleaner.CleanupExpiredBlocks(cleanupCtx)
	cm.metrics.ObserveCleanupDuration(time.Since(start).Seconds())
	if err != nil {
		cm.metrics.IncrementCleanupRuns("error")
		cm.logger.Error("failed to cleanup expired blocks", slog.Any("error", err))
		return
	}

	cm.metrics.IncrementCleanupRuns("success")
	if purged > 0 {
		cm.logger.Info("expired block cleanup completed", slog.Int64("records_purged", purged))
	}
}

// Stop signals the cleanup manager to stop. Safe to call more than once.
func (cm *CleanupManager) Stop() {
	cm.stopOnce.Do(func() {
		close(cm.stopCh)
	})
}
