package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stuapp/suggest-api/internal/models"
)

// AuditEventRepository persists audit events consumed from the queue
type AuditEventRepository struct {
	db *DB
}

// NewAuditEventRepository creates a new audit event repository
func NewAuditEventRepository(db *DB) *AuditEventRepository {
	return &AuditEventRepository{db: db}
}

// Insert stores an audit event. Duplicate ids are ignored so redelivered
// queue messages do not produce duplicate rows.
func (r *AuditEventRepository) Insert(ctx context.Context, event *models.AuditEvent) error {
	metadataJSON, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal audit metadata: %w", err)
	}

	query := `
		INSERT INTO audit_events (id, kind, severity, user_id, client_ip, detail, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.Kind,
		event.Severity,
		event.UserID,
		event.ClientIP,
		event.Detail,
		metadataJSON,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit event: %w", err)
	}

	return nil
}

// PurgeOlderThan deletes audit events past the retention window and returns
// how many rows were removed.
func (r *AuditEventRepository) PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error) {
	query := `DELETE FROM audit_events WHERE created_at < $1`

	result, err := r.db.ExecContext(ctx, query, time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to purge audit events: %w", err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get purged row count: %w", err)
	}

	return purged, nil
}
