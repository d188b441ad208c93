package models

import "testing"

func TestFeatureAvailable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		feature Feature
		tier    SubscriptionTier
		want    bool
	}{
		{"basic suggestions on free", FeatureBasicSuggestions, TierFree, true},
		{"persona on free", FeatureStuPersonality, TierFree, true},
		{"advanced suggestions on free", FeatureAdvancedSuggestions, TierFree, false},
		{"advanced suggestions on premium", FeatureAdvancedSuggestions, TierPremium, true},
		{"study planning on premium", FeatureStudyPlanning, TierPremium, true},
		{"voice processing on free", FeatureVoiceProcessing, TierFree, false},
		{"voice processing on enterprise", FeatureVoiceProcessing, TierEnterprise, true},
		{"ml predictions on premium", FeatureMLPredictions, TierPremium, false},
		{"ml predictions on premium_plus", FeatureMLPredictions, TierPremiumPlus, true},
		{"collaborative filtering on premium_plus", FeatureCollaborativeFiltering, TierPremiumPlus, true},
		{"premium analytics on enterprise", FeaturePremiumAnalytics, TierEnterprise, false},
		{"unknown tag checked as basic", Feature("mystery_mode"), TierFree, true},
		{"unknown tier treated as free", FeatureAdvancedSuggestions, SubscriptionTier("gold"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := FeatureAvailable(tt.feature, tt.tier); got != tt.want {
				t.Errorf("FeatureAvailable(%q, %q) = %v, want %v",
					tt.feature, tt.tier, got, tt.want)
			}
		})
	}
}

func TestKnownFeature(t *testing.T) {
	t.Parallel()

	for _, f := range KnownFeatures {
		if !KnownFeature(f) {
			t.Errorf("Expected %q to be a known feature", f)
		}
	}

	if KnownFeature(Feature("time_travel")) {
		t.Error("Expected unknown tag to not be a known feature")
	}
}
