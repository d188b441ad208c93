package database

import (
	"context"
	"fmt"
	"time"

	"github.com/stuapp/suggest-api/internal/models"
)

// TierLimitRepository handles deploy-time overrides of per-tier daily caps
type TierLimitRepository struct {
	db *DB
}

// NewTierLimitRepository creates a new tier limit repository
func NewTierLimitRepository(db *DB) *TierLimitRepository {
	return &TierLimitRepository{db: db}
}

// GetAll returns every stored tier limit override. An empty map means the
// compiled-in defaults apply unchanged.
func (r *TierLimitRepository) GetAll(ctx context.Context) (map[models.SubscriptionTier]int, error) {
	query := `SELECT tier, daily_limit FROM tier_limits`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tier limits: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			_ = err
		}
	}()

	limits := make(map[models.SubscriptionTier]int)
	for rows.Next() {
		var tier models.SubscriptionTier
		var limit int
		if err := rows.Scan(&tier, &limit); err != nil {
			return nil, fmt.Errorf("failed to scan tier limit: %w", err)
		}
		limits[tier] = limit
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tier limits: %w", err)
	}

	return limits, nil
}

// Set stores or replaces the daily limit override for a tier
func (r *TierLimitRepository) Set(ctx context.Context, tier models.SubscriptionTier, dailyLimit int) error {
	query := `
		INSERT INTO tier_limits (tier, daily_limit, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (tier) DO UPDATE
		SET daily_limit = EXCLUDED.daily_limit,
		    updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, tier, dailyLimit, time.Now())
	if err != nil {
		return fmt.Errorf("failed to set tier limit: %w", err)
	}

	return nil
}

// Delete removes the override for a tier, restoring the compiled-in default
func (r *TierLimitRepository) Delete(ctx context.Context, tier models.SubscriptionTier) error {
	query := `DELETE FROM tier_limits WHERE tier = $1`

	_, err := r.db.ExecContext(ctx, query, tier)
	if err != nil {
		return fmt.Errorf("failed to delete tier limit: %w", err)
	}

	return nil
}
