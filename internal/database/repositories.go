package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stuapp/suggest-api/internal/models"
)

// UserRepositoryInterface defines the user repository operations the
// pipeline depends on. Interfaces here enable mock implementations in tests.
type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByProviderID(ctx context.Context, providerID string) (*models.User, error)
	GetTier(ctx context.Context, id uuid.UUID) (models.SubscriptionTier, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// DailyUsageRepositoryInterface defines the usage ledger storage operations
type DailyUsageRepositoryInterface interface {
	GetCount(ctx context.Context, userID uuid.UUID, date string) (int, error)
	Increment(ctx context.Context, userID uuid.UUID, date string) (int, error)
}

// TierLimitRepositoryInterface defines tier limit override storage
type TierLimitRepositoryInterface interface {
	GetAll(ctx context.Context) (map[models.SubscriptionTier]int, error)
	Set(ctx context.Context, tier models.SubscriptionTier, dailyLimit int) error
}

// AuditEventRepositoryInterface defines audit event persistence
type AuditEventRepositoryInterface interface {
	Insert(ctx context.Context, event *models.AuditEvent) error
	PurgeOlderThan(ctx context.Context, retention time.Duration) (int64, error)
}

// Ensure concrete types implement the interfaces
var (
	_ UserRepositoryInterface       = (*UserRepository)(nil)
	_ DailyUsageRepositoryInterface = (*DailyUsageRepository)(nil)
	_ TierLimitRepositoryInterface  = (*TierLimitRepository)(nil)
	_ AuditEventRepositoryInterface = (*AuditEventRepository)(nil)
)
