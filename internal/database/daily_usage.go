package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stuapp/suggest-api/internal/models"
)

// DailyUsageRepository handles the per-user, per-day request counters
type DailyUsageRepository struct {
	db *DB
}

// NewDailyUsageRepository creates a new daily usage repository
func NewDailyUsageRepository(db *DB) *DailyUsageRepository {
	return &DailyUsageRepository{db: db}
}

// GetCount returns today's request count for the user. A missing row reads
// as zero; the row itself is only created on the first commit of the day.
func (r *DailyUsageRepository) GetCount(ctx context.Context, userID uuid.UUID, date string) (int, error) {
	var count int
	query := `
		SELECT request_count
		FROM daily_usage
		WHERE user_id = $1 AND usage_date = $2
	`

	err := r.db.QueryRowContext(ctx, query, userID, date).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get daily usage: %w", err)
	}

	return count, nil
}

// Increment atomically bumps the counter for (user, date) and returns the new
// count. The upsert does the arithmetic inside the statement so concurrent
// commits on the same key never lose updates; this is deliberately not
// wrapped in a transaction with the quota check.
func (r *DailyUsageRepository) Increment(ctx context.Context, userID uuid.UUID, date string) (int, error) {
	var count int
	query := `
		INSERT INTO daily_usage (user_id, usage_date, request_count, last_request_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (user_id, usage_date) DO UPDATE
		SET request_count = daily_usage.request_count + 1,
		    last_request_at = EXCLUDED.last_request_at
		RETURNING request_count
	`

	err := r.db.QueryRowContext(ctx, query, userID, date, time.Now()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to increment daily usage: %w", err)
	}

	return count, nil
}

// Get returns the full usage row, or a zero-count row if none exists yet.
func (r *DailyUsageRepository) Get(ctx context.Context, userID uuid.UUID, date string) (*models.DailyUsage, error) {
	usage := &models.DailyUsage{UserID: userID, UsageDate: date}
	query := `
		SELECT request_count, last_request_at
		FROM daily_usage
		WHERE user_id = $1 AND usage_date = $2
	`

	err := r.db.QueryRowContext(ctx, query, userID, date).Scan(
		&usage.RequestCount,
		&usage.LastRequestAt,
	)
	if err == sql.ErrNoRows {
		return usage, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily usage: %w", err)
	}

	return usage, nil
}
