package suggest

import (
	"fmt"
	"time"

	"github.com/stuapp/suggest-api/internal/models"
	"github.com/stuapp/suggest-api/internal/services/ai"
)

// featureProfile holds the normalization defaults for one feature: the
// priority assigned to its records and the confidence used when the handler
// output carries none.
type featureProfile struct {
	priority   models.SuggestionPriority
	confidence float64
	category   string
}

var featureProfiles = map[models.Feature]featureProfile{
	models.FeatureBasicSuggestions:       {models.SuggestionPriorityMedium, 0.75, "task_management"},
	models.FeatureAdvancedSuggestions:    {models.SuggestionPriorityMedium, 0.85, "task_management"},
	models.FeatureStudyPlanning:          {models.SuggestionPriorityHigh, 0.85, "planning"},
	models.FeatureVoiceProcessing:        {models.SuggestionPriorityMedium, 0.80, "voice"},
	models.FeatureStuPersonality:         {models.SuggestionPriorityLow, 0.90, "motivation"},
	models.FeatureMLPredictions:          {models.SuggestionPriorityMedium, 0.80, "predictions"},
	models.FeatureCollaborativeFiltering: {models.SuggestionPriorityMedium, 0.80, "community"},
	models.FeaturePremiumAnalytics:       {models.SuggestionPriorityMedium, 0.95, "analytics"},
}

const (
	defaultDifficulty       = 5
	defaultEstimatedBenefit = 0.7
)

// newSuggestionID builds a response-unique id from the producing feature, a
// timestamp and the record's index within the response.
func newSuggestionID(feature models.Feature, now time.Time, index int) string {
	return fmt.Sprintf("%s-%d-%d", feature, now.UnixNano(), index)
}

func clampConfidence(c, fallback float64) float64 {
	if c <= 0 {
		return fallback
	}
	if c > 1 {
		return 1
	}
	return c
}

func clampDifficulty(d int) int {
	if d < 1 || d > 10 {
		return defaultDifficulty
	}
	return d
}

func clampBenefit(b float64) float64 {
	if b <= 0 || b > 1 {
		return defaultEstimatedBenefit
	}
	return b
}

// newMetadata builds the metadata bag every record carries. The confidence
// value is duplicated here on purpose: some clients only read metadata.
func newMetadata(profile featureProfile, tier models.SubscriptionTier, tags []string, difficulty int, benefit, confidence float64, extra map[string]any) models.SuggestionMetadata {
	if len(tags) == 0 {
		tags = []string{profile.category}
	}
	return models.SuggestionMetadata{
		Category:         profile.category,
		Tags:             tags,
		Difficulty:       clampDifficulty(difficulty),
		EstimatedBenefit: clampBenefit(benefit),
		Tier:             models.NormalizeTier(tier),
		Confidence:       confidence,
		Extra:            extra,
	}
}

// normalizeDrafts maps suggestion-list handler output (basic and advanced
// suggestions) into records.
func normalizeDrafts(feature models.Feature, tier models.SubscriptionTier, now time.Time, drafts []ai.SuggestionDraft) ([]models.Suggestion, error) {
	if len(drafts) == 0 {
		return nil, fmt.Errorf("%s produced no suggestions", feature)
	}

	profile := featureProfiles[feature]
	out := make([]models.Suggestion, 0, len(drafts))
	for i, d := range drafts {
		confidence := clampConfidence(d.Confidence, profile.confidence)
		out = append(out, models.Suggestion{
			ID:          newSuggestionID(feature, now, i),
			Type:        string(feature),
			Title:       d.Title,
			Description: d.Description,
			Priority:    profile.priority,
			Source:      feature,
			CreatedAt:   now,
			Confidence:  confidence,
			Reasoning:   d.Reasoning,
			Metadata:    newMetadata(profile, tier, d.Tags, d.Difficulty, d.EstimatedBenefit, confidence, nil),
		})
	}
	return out, nil
}

// normalizePlan maps a study plan into a single record carrying the plan
// blocks in the metadata bag.
func normalizePlan(tier models.SubscriptionTier, now time.Time, plan *ai.PlanDraft) ([]models.Suggestion, error) {
	if plan == nil || (plan.Title == "" && len(plan.Blocks) == 0) {
		return nil, fmt.Errorf("study planning produced no plan")
	}

	feature := models.FeatureStudyPlanning
	profile := featureProfiles[feature]

	blocks := make([]map[string]any, 0, len(plan.Blocks))
	for _, b := range plan.Blocks {
		blocks = append(blocks, map[string]any{
			"subject":          b.Subject,
			"focus":            b.Focus,
			"duration_minutes": b.DurationMinutes,
			"break_minutes":    b.BreakMinutes,
		})
	}
	extra := map[string]any{
		"blocks":        blocks,
		"total_minutes": plan.TotalMinutes,
	}

	return []models.Suggestion{{
		ID:          newSuggestionID(feature, now, 0),
		Type:        string(feature),
		Title:       plan.Title,
		Description: plan.Summary,
		Priority:    profile.priority,
		Source:      feature,
		CreatedAt:   now,
		Confidence:  profile.confidence,
		Metadata:    newMetadata(profile, tier, nil, 0, 0, profile.confidence, extra),
	}}, nil
}

// normalizeTranscription maps a voice transcription into a single record.
func normalizeTranscription(tier models.SubscriptionTier, now time.Time, tr *ai.Transcription) ([]models.Suggestion, error) {
	if tr == nil || tr.Text == "" {
		return nil, fmt.Errorf("voice processing produced no transcription")
	}

	feature := models.FeatureVoiceProcessing
	profile := featureProfiles[feature]
	confidence := clampConfidence(tr.Confidence, profile.confidence)

	extra := map[string]any{"transcription": tr.Text}
	if tr.Language != "" {
		extra["language"] = tr.Language
	}

	return []models.Suggestion{{
		ID:          newSuggestionID(feature, now, 0),
		Type:        string(feature),
		Title:       "Voice note transcribed",
		Description: tr.Text,
		Priority:    profile.priority,
		Source:      feature,
		CreatedAt:   now,
		Confidence:  confidence,
		Metadata:    newMetadata(profile, tier, nil, 0, 0, confidence, extra),
	}}, nil
}

// normalizeMessage maps a single-message handler output (persona and
// community insight) into one record.
func normalizeMessage(feature models.Feature, tier models.SubscriptionTier, now time.Time, title, message string) ([]models.Suggestion, error) {
	if message == "" {
		return nil, fmt.Errorf("%s produced no message", feature)
	}

	profile := featureProfiles[feature]
	return []models.Suggestion{{
		ID:          newSuggestionID(feature, now, 0),
		Type:        string(feature),
		Title:       title,
		Description: message,
		Priority:    profile.priority,
		Source:      feature,
		CreatedAt:   now,
		Confidence:  profile.confidence,
		Metadata:    newMetadata(profile, tier, nil, 0, 0, profile.confidence, nil),
	}}, nil
}

// normalizePredictions maps prediction-list output into one record per
// prediction, each with its own confidence, priority and difficulty.
func normalizePredictions(tier models.SubscriptionTier, now time.Time, preds []ai.Prediction) ([]models.Suggestion, error) {
	if len(preds) == 0 {
		return nil, fmt.Errorf("ml predictions produced no output")
	}

	feature := models.FeatureMLPredictions
	profile := featureProfiles[feature]
	out := make([]models.Suggestion, 0, len(preds))
	for i, p := range preds {
		confidence := clampConfidence(p.Confidence, profile.confidence)
		priority := profile.priority
		switch models.SuggestionPriority(p.Priority) {
		case models.SuggestionPriorityLow, models.SuggestionPriorityMedium, models.SuggestionPriorityHigh:
			priority = models.SuggestionPriority(p.Priority)
		}

		extra := map[string]any{}
		if p.TaskID != "" {
			extra["task_id"] = p.TaskID
		}

		out = append(out, models.Suggestion{
			ID:          newSuggestionID(feature, now, i),
			Type:        string(feature),
			Title:       "Task outcome prediction",
			Description: p.Outcome,
			Priority:    priority,
			Source:      feature,
			CreatedAt:   now,
			Confidence:  confidence,
			Reasoning:   p.Reasoning,
			Metadata:    newMetadata(profile, tier, nil, p.Difficulty, 0, confidence, extra),
		})
	}
	return out, nil
}

// normalizeAnalytics maps the analytics summary into a single record with
// the breakdown and trends in the metadata bag.
func normalizeAnalytics(tier models.SubscriptionTier, now time.Time, report *ai.AnalyticsReport) ([]models.Suggestion, error) {
	if report == nil || report.Summary == "" {
		return nil, fmt.Errorf("premium analytics produced no report")
	}

	feature := models.FeaturePremiumAnalytics
	profile := featureProfiles[feature]

	extra := map[string]any{
		"completion_rate": report.CompletionRate,
	}
	if len(report.SubjectBreakdown) > 0 {
		extra["subject_breakdown"] = report.SubjectBreakdown
	}
	if len(report.Trends) > 0 {
		extra["trends"] = report.Trends
	}

	return []models.Suggestion{{
		ID:          newSuggestionID(feature, now, 0),
		Type:        string(feature),
		Title:       "Your productivity report",
		Description: report.Summary,
		Priority:    profile.priority,
		Source:      feature,
		CreatedAt:   now,
		Confidence:  profile.confidence,
		Metadata:    newMetadata(profile, tier, nil, 0, 0, profile.confidence, extra),
	}}, nil
}
