package queue

import (
	"context"
	"time"

	"github.com/stuapp/suggest-api/internal/models"
	"go.uber.org/zap"
)

// publishTimeout bounds how long a background publish may take.
const publishTimeout = 5 * time.Second

// AsyncPublisher publishes audit events fire-and-forget. Every publish runs
// in its own goroutine detached from the request context, so broker trouble
// can never slow down or fail the request that emitted the event.
type AsyncPublisher struct {
	queue  AuditQueue
	logger *zap.Logger
}

// NewAsyncPublisher creates a fire-and-forget publisher over the queue.
func NewAsyncPublisher(queue AuditQueue, logger *zap.Logger) *AsyncPublisher {
	return &AsyncPublisher{queue: queue, logger: logger}
}

// Publish sends the event in the background. Failures are logged and
// dropped.
func (p *AsyncPublisher) Publish(_ context.Context, event *models.AuditEvent) {
	if p.queue == nil || event == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		if err := p.queue.Publish(ctx, event); err != nil && p.logger != nil {
			p.logger.Warn("audit_event_publish_failed",
				zap.String("event_id", event.ID.String()),
				zap.String("kind", string(event.Kind)),
				zap.Error(err),
			)
		}
	}()
}
