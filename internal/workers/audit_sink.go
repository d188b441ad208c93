package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/stuapp/suggest-api/internal/database"
	"github.com/stuapp/suggest-api/internal/queue"
	"go.uber.org/zap"
)

// insertTimeout bounds each database write.
const insertTimeout = 10 * time.Second

// AuditSink consumes audit events from the queue and persists them. Inserts
// are idempotent on event id, so redeliveries after a crash or nack do not
// produce duplicate rows.
type AuditSink struct {
	auditQueue queue.AuditQueue
	events     database.AuditEventRepositoryInterface
	logger     *zap.Logger
	prefetch   int
}

// NewAuditSink creates an audit sink worker.
func NewAuditSink(auditQueue queue.AuditQueue, events database.AuditEventRepositoryInterface, logger *zap.Logger, prefetch int) *AuditSink {
	if prefetch <= 0 {
		prefetch = 1
	}
	return &AuditSink{
		auditQueue: auditQueue,
		events:     events,
		logger:     logger,
		prefetch:   prefetch,
	}
}

// Run consumes until ctx is cancelled or the delivery stream breaks.
func (s *AuditSink) Run(ctx context.Context) error {
	msgs, errs, err := s.auditQueue.Consume(ctx, s.prefetch)
	if err != nil {
		return fmt.Errorf("failed to start consuming audit events: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case consumeErr, ok := <-errs:
			if !ok {
				return nil
			}
			s.logger.Error("audit_consume_error", zap.Error(consumeErr))
			return consumeErr
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			s.handle(ctx, msg)
		}
	}
}

// handle persists one event. Storage failures requeue the message so it is
// retried; events that persist (or deduplicate) are acked.
func (s *AuditSink) handle(ctx context.Context, msg queue.MessageInterface) {
	event := msg.GetEvent()
	if event == nil {
		if err := msg.Nack(false); err != nil {
			s.logger.Warn("audit_nack_failed", zap.Error(err))
		}
		return
	}

	insertCtx, cancel := context.WithTimeout(ctx, insertTimeout)
	err := s.events.Insert(insertCtx, event)
	cancel()
	if err != nil {
		s.logger.Error("audit_event_store_failed",
			zap.String("event_id", event.ID.String()),
			zap.String("kind", string(event.Kind)),
			zap.Error(err),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			s.logger.Warn("audit_nack_failed", zap.Error(nackErr))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		s.logger.Warn("audit_ack_failed",
			zap.String("event_id", event.ID.String()),
			zap.Error(err),
		)
		return
	}

	s.logger.Debug("audit_event_stored",
		zap.String("event_id", event.ID.String()),
		zap.String("kind", string(event.Kind)),
		zap.String("severity", string(event.Severity)),
	)
}
