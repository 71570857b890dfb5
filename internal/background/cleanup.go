package background

import (
	"context"
	"log/slog"
	"time"
)

// AnalyticsPurger removes analytics events older than a retention window
type AnalyticsPurger interface {
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// CleanupManager periodically removes aged analytics events from the database
type CleanupManager struct {
	purger    AnalyticsPurger
	logger    *slog.Logger
	interval  time.Duration
	retention time.Duration
	stopCh    chan struct{}
}

// NewCleanupManager creates a new cleanup manager
func NewCleanupManager(
	purger AnalyticsPurger,
	logger *slog.Logger,
	interval time.Duration,
	retention time.Duration,
) *CleanupManager {
	return &CleanupManager{
		purger:    purger,
		logger:    logger,
		interval:  interval,
		retention: retention,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic cleanup task
func (cm *CleanupManager) Start(ctx context.Context) {
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
			return
		case <-ctx.Done():
			cm.logger.Info("cleanup manager context cancelled")
			return
		}
	}
}

// runCleanup removes events past the retention window
func (cm *CleanupManager) runCleanup(ctx context.Context) {
	cm.logger.Info("starting analytics retention cleanup")

	cleanupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rowsDeleted, err := cm.purger.PurgeOlderThan(cleanupCtx, cm.retention)
	if err != nil {
		cm.logger.Error("failed to purge aged analytics events", slog.Any("error", err))
		return
	}

	if rowsDeleted > 0 {
		cm.logger.Info("analytics retention cleanup completed", slog.Int64("rows_deleted", rowsDeleted))
	}
}

// Stop signals the cleanup manager to stop
func (cm *CleanupManager) Stop() {
	close(cm.stopCh)
}
