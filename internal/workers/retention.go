package workers

import (
	"context"
	"time"

	"github.com/stuapp/suggest-api/internal/database"
	"go.uber.org/zap"
)

const (
	// DefaultRetentionInterval is how often the purge runs
	DefaultRetentionInterval = time.Hour
	// DefaultRetention is how long audit events are kept
	DefaultRetention = 90 * 24 * time.Hour

	purgeTimeout = 2 * time.Minute
)

// RetentionWorker periodically purges audit events past the retention
// window.
type RetentionWorker struct {
	events    database.AuditEventRepositoryInterface
	logger    *zap.Logger
	interval  time.Duration
	retention time.Duration
}

// NewRetentionWorker creates a retention worker. Zero interval or retention
// fall back to the defaults.
func NewRetentionWorker(events database.AuditEventRepositoryInterface, logger *zap.Logger, interval, retention time.Duration) *RetentionWorker {
	if interval <= 0 {
		interval = DefaultRetentionInterval
	}
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &RetentionWorker{
		events:    events,
		logger:    logger,
		interval:  interval,
		retention: retention,
	}
}

// Run executes the purge loop until ctx is cancelled.
func (w *RetentionWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.purge(ctx)
		}
	}
}

func (w *RetentionWorker) purge(ctx context.Context) {
	purgeCtx, cancel := context.WithTimeout(ctx, purgeTimeout)
	defer cancel()

	purged, err := w.events.PurgeOlderThan(purgeCtx, w.retention)
	if err != nil {
		w.logger.Error("audit_retention_purge_failed", zap.Error(err))
		return
	}
	if purged > 0 {
		w.logger.Info("audit_retention_purged",
			zap.Int64("events", purged),
			zap.Duration("retention", w.retention),
		)
	}
}
