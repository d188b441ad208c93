package models

// SubscriptionTier represents a subscription level
type SubscriptionTier string

const (
	TierFree        SubscriptionTier = "free"
	TierPremium     SubscriptionTier = "premium"
	TierPremiumPlus SubscriptionTier = "premium_plus"
	// TierEnterprise exists in billing data but always collapses to premium
	// in outward-facing responses. It never appears in API output.
	TierEnterprise SubscriptionTier = "enterprise"
)

// UnlimitedDailyLimit is the reserved sentinel meaning "no daily cap".
const UnlimitedDailyLimit = 0

// tierAliases maps stored tier values to the tier exposed to callers.
// Both tier resolution and response assembly go through this table so the
// aliasing stays consistent.
var tierAliases = map[SubscriptionTier]SubscriptionTier{
	TierFree:        TierFree,
	TierPremium:     TierPremium,
	TierPremiumPlus: TierPremiumPlus,
	TierEnterprise:  TierPremium,
}

// NormalizeTier collapses aliases and defaults unknown or empty values to free.
func NormalizeTier(tier SubscriptionTier) SubscriptionTier {
	if normalized, ok := tierAliases[tier]; ok {
		return normalized
	}
	return TierFree
}

// ValidTier reports whether the value is a tier this service stores.
func ValidTier(tier SubscriptionTier) bool {
	_, ok := tierAliases[tier]
	return ok
}

// DefaultDailyLimits holds the compiled-in daily request caps per tier.
// The configure CLI and TIER_LIMITS_FILE can override these at deploy time.
var DefaultDailyLimits = map[SubscriptionTier]int{
	TierFree:        10,
	TierPremium:     100,
	TierPremiumPlus: 500,
}

// DailyLimitFor returns the daily cap for a tier after alias normalization.
func DailyLimitFor(tier SubscriptionTier) int {
	return DefaultDailyLimits[NormalizeTier(tier)]
}
