package models

// Feature identifies one of the AI suggestion capabilities
type Feature string

const (
	FeatureBasicSuggestions       Feature = "basic_suggestions"
	FeatureAdvancedSuggestions    Feature = "advanced_suggestions"
	FeatureStudyPlanning          Feature = "study_planning"
	FeatureVoiceProcessing        Feature = "voice_processing"
	FeatureStuPersonality         Feature = "stu_personality"
	FeatureMLPredictions          Feature = "ml_predictions"
	FeatureCollaborativeFiltering Feature = "collaborative_filtering"
	FeaturePremiumAnalytics       Feature = "premium_analytics"
)

// KnownFeatures lists every feature tag the dispatcher has a handler for.
var KnownFeatures = []Feature{
	FeatureBasicSuggestions,
	FeatureAdvancedSuggestions,
	FeatureStudyPlanning,
	FeatureVoiceProcessing,
	FeatureStuPersonality,
	FeatureMLPredictions,
	FeatureCollaborativeFiltering,
	FeaturePremiumAnalytics,
}

// KnownFeature reports whether the tag has a dedicated handler. Unknown tags
// are still dispatchable: the dispatcher falls back to basic suggestions.
func KnownFeature(f Feature) bool {
	for _, known := range KnownFeatures {
		if f == known {
			return true
		}
	}
	return false
}

// featureAccess is the static feature-by-tier allowlist. Tiers are the
// normalized outward tiers; enterprise callers get premium access.
var featureAccess = map[Feature]map[SubscriptionTier]bool{
	FeatureBasicSuggestions: {
		TierFree: true, TierPremium: true, TierPremiumPlus: true,
	},
	FeatureStuPersonality: {
		TierFree: true, TierPremium: true, TierPremiumPlus: true,
	},
	FeatureAdvancedSuggestions: {
		TierPremium: true, TierPremiumPlus: true,
	},
	FeatureStudyPlanning: {
		TierPremium: true, TierPremiumPlus: true,
	},
	FeatureVoiceProcessing: {
		TierPremium: true, TierPremiumPlus: true,
	},
	FeatureMLPredictions: {
		TierPremiumPlus: true,
	},
	FeatureCollaborativeFiltering: {
		TierPremiumPlus: true,
	},
	FeaturePremiumAnalytics: {
		TierPremiumPlus: true,
	},
}

// FeatureAvailable reports whether a tier may use a feature. Unknown tags are
// checked as basic suggestions since that is what they dispatch to.
func FeatureAvailable(f Feature, tier SubscriptionTier) bool {
	if !KnownFeature(f) {
		f = FeatureBasicSuggestions
	}
	return featureAccess[f][NormalizeTier(tier)]
}
