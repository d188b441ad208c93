package queue

import (
	"context"

	"github.com/stuapp/suggest-api/internal/models"
)

// MessageInterface defines the interface for queue messages.
// This enables better testability by allowing mock implementations.
type MessageInterface interface {
	Ack() error
	Nack(requeue bool) error
	GetEvent() *models.AuditEvent
}

// AuditQueue is the interface for the audit event queue.
type AuditQueue interface {
	// Publish sends an audit event to the queue.
	Publish(ctx context.Context, event *models.AuditEvent) error

	// Consume returns a channel of messages from the queue.
	// Messages are delivered asynchronously as they arrive and the caller is
	// responsible for acknowledging each one. Prefetch controls how many
	// unacknowledged messages each consumer can hold.
	Consume(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error)

	// Close closes the queue connection.
	Close() error

	// HealthCheck verifies the queue connection is healthy.
	HealthCheck(ctx context.Context) error
}
