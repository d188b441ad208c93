package suggest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stuapp/suggest-api/internal/database"
	"github.com/stuapp/suggest-api/internal/models"
)

// QuotaSnapshot is the result of a quota check or commit.
type QuotaSnapshot struct {
	Permitted bool
	Used      int
	Limit     int
	Unlimited bool
}

// Remaining returns the requests left today, never negative. Unlimited tiers
// report -1.
func (s QuotaSnapshot) Remaining() int {
	if s.Unlimited {
		return -1
	}
	if left := s.Limit - s.Used; left > 0 {
		return left
	}
	return 0
}

// Ledger enforces the per-day request quota. Check and Commit are deliberately
// separate operations with no lock or transaction spanning them: two
// concurrent requests may both pass the check and both commit, so a caller
// can exceed the daily cap by a small margin under concurrent load. The
// commit itself is an atomic upsert, so concurrent commits never lose
// updates.
type Ledger struct {
	usage  database.DailyUsageRepositoryInterface
	limits *LimitResolver
}

// NewLedger creates a quota ledger over the usage store.
func NewLedger(usage database.DailyUsageRepositoryInterface, limits *LimitResolver) *Ledger {
	return &Ledger{usage: usage, limits: limits}
}

// Check reads today's usage for the caller and compares it against the
// tier's daily cap. It never mutates the counter.
func (l *Ledger) Check(ctx context.Context, userID uuid.UUID, tier models.SubscriptionTier, now time.Time) (QuotaSnapshot, error) {
	limit := l.limits.LimitFor(tier)

	used, err := l.usage.GetCount(ctx, userID, models.UsageDate(now))
	if err != nil {
		return QuotaSnapshot{}, fmt.Errorf("quota check failed: %w", err)
	}

	snap := QuotaSnapshot{
		Used:      used,
		Limit:     limit,
		Unlimited: limit == models.UnlimitedDailyLimit,
	}
	snap.Permitted = snap.Unlimited || used < limit
	return snap, nil
}

// Commit records one successful dispatch and returns the post-commit
// snapshot. The increment happens only after dispatch succeeded, so a failed
// generation never consumes quota.
func (l *Ledger) Commit(ctx context.Context, userID uuid.UUID, tier models.SubscriptionTier, now time.Time) (QuotaSnapshot, error) {
	limit := l.limits.LimitFor(tier)

	count, err := l.usage.Increment(ctx, userID, models.UsageDate(now))
	if err != nil {
		return QuotaSnapshot{}, fmt.Errorf("quota commit failed: %w", err)
	}

	return QuotaSnapshot{
		Permitted: true,
		Used:      count,
		Limit:     limit,
		Unlimited: limit == models.UnlimitedDailyLimit,
	}, nil
}
