package suggest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stuapp/suggest-api/internal/database"
	"github.com/stuapp/suggest-api/internal/models"
)

// TierResolver maps a caller to their subscription tier. A lookup failure is
// surfaced to the caller of the pipeline as an internal error, never silently
// defaulted; only an unknown caller reads as free.
type TierResolver interface {
	ResolveTier(ctx context.Context, userID uuid.UUID) (models.SubscriptionTier, error)
}

// RepositoryTierResolver resolves tiers from the user store.
type RepositoryTierResolver struct {
	users database.UserRepositoryInterface
}

var _ TierResolver = (*RepositoryTierResolver)(nil)

// NewRepositoryTierResolver creates a tier resolver backed by the user
// repository.
func NewRepositoryTierResolver(users database.UserRepositoryInterface) *RepositoryTierResolver {
	return &RepositoryTierResolver{users: users}
}

// ResolveTier returns the stored tier for the user, normalized through the
// alias table. Unknown users resolve to free; storage errors propagate.
func (r *RepositoryTierResolver) ResolveTier(ctx context.Context, userID uuid.UUID) (models.SubscriptionTier, error) {
	tier, err := r.users.GetTier(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve tier: %w", err)
	}
	return models.NormalizeTier(tier), nil
}

// CheckAccess applies the static feature-by-tier allowlist. It is pure: no
// lookups, no side effects. A denial carries an upgrade-required message
// naming the feature.
func CheckAccess(feature models.Feature, tier models.SubscriptionTier) *PipelineError {
	if models.FeatureAvailable(feature, tier) {
		return nil
	}
	return errAccessDenied(fmt.Sprintf("Your %s plan does not include %s. Upgrade to unlock this feature.",
		models.NormalizeTier(tier), displayFeature(feature)))
}

func displayFeature(feature models.Feature) string {
	if !models.KnownFeature(feature) {
		feature = models.FeatureBasicSuggestions
	}
	return string(feature)
}
