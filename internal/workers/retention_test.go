package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stuapp/suggest-api/internal/models"
	"go.uber.org/zap"
)

func TestRetentionWorkerDefaults(t *testing.T) {
	t.Parallel()

	w := NewRetentionWorker(newMemAuditRepo(), zap.NewNop(), 0, 0)

	if w.interval != DefaultRetentionInterval {
		t.Errorf("expected default interval, got %v", w.interval)
	}
	if w.retention != DefaultRetention {
		t.Errorf("expected default retention, got %v", w.retention)
	}
}

func TestRetentionWorkerPurge(t *testing.T) {
	t.Parallel()

	t.Run("purges only expired events", func(t *testing.T) {
		t.Parallel()
		repo := newMemAuditRepo()

		old := models.NewAuditEvent(models.AuditKindAuthentication, models.AuditSeverityMedium, "expired")
		old.CreatedAt = time.Now().Add(-48 * time.Hour)
		fresh := models.NewAuditEvent(models.AuditKindQuotaExceeded, models.AuditSeverityLow, "recent")
		_ = repo.Insert(context.Background(), old)
		_ = repo.Insert(context.Background(), fresh)

		w := NewRetentionWorker(repo, zap.NewNop(), time.Hour, 24*time.Hour)
		w.purge(context.Background())

		if repo.count() != 1 {
			t.Errorf("expected 1 remaining event, got %d", repo.count())
		}
	})

	t.Run("storage error leaves events in place", func(t *testing.T) {
		t.Parallel()
		repo := newMemAuditRepo()
		event := models.NewAuditEvent(models.AuditKindAuthentication, models.AuditSeverityMedium, "expired")
		event.CreatedAt = time.Now().Add(-48 * time.Hour)
		_ = repo.Insert(context.Background(), event)
		repo.err = errors.New("db down")

		w := NewRetentionWorker(repo, zap.NewNop(), time.Hour, 24*time.Hour)
		w.purge(context.Background())

		repo.err = nil
		if repo.count() != 1 {
			t.Errorf("expected event to survive failed purge, got %d", repo.count())
		}
	})
}

func TestRetentionWorkerRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	w := NewRetentionWorker(newMemAuditRepo(), zap.NewNop(), time.Millisecond, time.Hour)

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
