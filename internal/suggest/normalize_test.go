package suggest

import (
	"testing"
	"time"

	"github.com/stuapp/suggest-api/internal/models"
	"github.com/stuapp/suggest-api/internal/services/ai"
)

var normalizeNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func assertMetadata(t *testing.T, s models.Suggestion, wantTier models.SubscriptionTier) {
	t.Helper()
	m := s.Metadata
	if m.Category == "" {
		t.Error("metadata category must always be set")
	}
	if len(m.Tags) == 0 {
		t.Error("metadata tags must always be set")
	}
	if m.Difficulty < 1 || m.Difficulty > 10 {
		t.Errorf("metadata difficulty out of range: %d", m.Difficulty)
	}
	if m.EstimatedBenefit <= 0 || m.EstimatedBenefit > 1 {
		t.Errorf("metadata estimated benefit out of range: %f", m.EstimatedBenefit)
	}
	if m.Tier != wantTier {
		t.Errorf("metadata tier = %q, want %q", m.Tier, wantTier)
	}
	if m.Confidence != s.Confidence {
		t.Errorf("metadata confidence %f must duplicate record confidence %f", m.Confidence, s.Confidence)
	}
}

func TestNormalizeDrafts(t *testing.T) {
	t.Parallel()

	drafts := []ai.SuggestionDraft{
		{Title: "Review notes", Description: "Go over chapter 4", Confidence: 0.9, Tags: []string{"review"}, Difficulty: 3},
		{Title: "Start essay", Description: "Draft the outline"},
	}

	out, err := normalizeDrafts(models.FeatureBasicSuggestions, models.TierFree, normalizeNow, drafts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}

	if out[0].ID == out[1].ID {
		t.Error("record ids must be unique within a response")
	}
	if out[0].Confidence != 0.9 {
		t.Errorf("handler confidence must win, got %f", out[0].Confidence)
	}
	if out[1].Confidence != 0.75 {
		t.Errorf("expected basic default confidence 0.75, got %f", out[1].Confidence)
	}
	if out[0].Priority != models.SuggestionPriorityMedium {
		t.Errorf("unexpected priority %q", out[0].Priority)
	}
	for _, s := range out {
		if s.Source != models.FeatureBasicSuggestions {
			t.Errorf("unexpected source %q", s.Source)
		}
		assertMetadata(t, s, models.TierFree)
	}

	if _, err := normalizeDrafts(models.FeatureBasicSuggestions, models.TierFree, normalizeNow, nil); err == nil {
		t.Error("empty handler output must be an error")
	}
}

func TestNormalizePlan(t *testing.T) {
	t.Parallel()

	plan := &ai.PlanDraft{
		Title:        "Exam week plan",
		Summary:      "Front-load physics",
		Blocks:       []ai.StudyBlock{{Subject: "physics", DurationMinutes: 45, BreakMinutes: 15}},
		TotalMinutes: 60,
	}

	out, err := normalizePlan(models.TierPremium, normalizeNow, plan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].Priority != models.SuggestionPriorityHigh {
		t.Errorf("plans default to high priority, got %q", out[0].Priority)
	}
	if out[0].Metadata.Extra["total_minutes"] != 60 {
		t.Errorf("expected plan payload in metadata, got %v", out[0].Metadata.Extra)
	}
	assertMetadata(t, out[0], models.TierPremium)

	if _, err := normalizePlan(models.TierPremium, normalizeNow, &ai.PlanDraft{}); err == nil {
		t.Error("empty plan must be an error")
	}
}

func TestNormalizeTranscription(t *testing.T) {
	t.Parallel()

	out, err := normalizeTranscription(models.TierPremium, normalizeNow, &ai.Transcription{
		Text:       "study biology at six",
		Confidence: 0.93,
		Language:   "en",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Description != "study biology at six" {
		t.Errorf("unexpected description %q", out[0].Description)
	}
	if out[0].Confidence != 0.93 {
		t.Errorf("transcription confidence must flow through, got %f", out[0].Confidence)
	}
	if out[0].Metadata.Extra["language"] != "en" {
		t.Errorf("expected language in metadata, got %v", out[0].Metadata.Extra)
	}

	if _, err := normalizeTranscription(models.TierPremium, normalizeNow, &ai.Transcription{}); err == nil {
		t.Error("empty transcription must be an error")
	}
}

func TestNormalizeMessage(t *testing.T) {
	t.Parallel()

	out, err := normalizeMessage(models.FeatureStuPersonality, models.TierFree, normalizeNow, "A note from Stu", "Keep going!")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Priority != models.SuggestionPriorityLow {
		t.Errorf("persona messages default to low priority, got %q", out[0].Priority)
	}
	if out[0].Confidence != 0.9 {
		t.Errorf("expected persona default confidence 0.9, got %f", out[0].Confidence)
	}
	assertMetadata(t, out[0], models.TierFree)

	if _, err := normalizeMessage(models.FeatureStuPersonality, models.TierFree, normalizeNow, "t", ""); err == nil {
		t.Error("empty message must be an error")
	}
}

func TestNormalizePredictions(t *testing.T) {
	t.Parallel()

	preds := []ai.Prediction{
		{TaskID: "t1", Outcome: "likely late", Confidence: 0.6, Priority: "high", Difficulty: 7},
		{Outcome: "on track"},
	}

	out, err := normalizePredictions(models.TierPremiumPlus, normalizeNow, preds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Priority != models.SuggestionPriorityHigh {
		t.Errorf("per-prediction priority must win, got %q", out[0].Priority)
	}
	if out[0].Metadata.Difficulty != 7 {
		t.Errorf("per-prediction difficulty must win, got %d", out[0].Metadata.Difficulty)
	}
	if out[1].Priority != models.SuggestionPriorityMedium {
		t.Errorf("missing priority falls back to default, got %q", out[1].Priority)
	}
	if out[1].Confidence != 0.8 {
		t.Errorf("missing confidence falls back to 0.8, got %f", out[1].Confidence)
	}
	for _, s := range out {
		assertMetadata(t, s, models.TierPremiumPlus)
	}
}

func TestNormalizeAnalytics(t *testing.T) {
	t.Parallel()

	out, err := normalizeAnalytics(models.TierPremiumPlus, normalizeNow, &ai.AnalyticsReport{
		Summary:          "Strong week",
		CompletionRate:   0.82,
		SubjectBreakdown: map[string]float64{"math": 0.5},
		Trends:           []string{"longer sessions"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Confidence != 0.95 {
		t.Errorf("expected analytics default confidence 0.95, got %f", out[0].Confidence)
	}
	if out[0].Metadata.Extra["completion_rate"] != 0.82 {
		t.Errorf("expected completion rate in metadata, got %v", out[0].Metadata.Extra)
	}
	assertMetadata(t, out[0], models.TierPremiumPlus)
}

func TestNormalizeClampsOutOfRangeValues(t *testing.T) {
	t.Parallel()

	drafts := []ai.SuggestionDraft{
		{Title: "x", Description: "y", Confidence: 3.2, Difficulty: 42, EstimatedBenefit: -1},
	}
	out, err := normalizeDrafts(models.FeatureAdvancedSuggestions, models.TierEnterprise, normalizeNow, drafts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Confidence != 1 {
		t.Errorf("confidence above 1 must clamp to 1, got %f", out[0].Confidence)
	}
	if out[0].Metadata.Difficulty != defaultDifficulty {
		t.Errorf("out-of-range difficulty must fall back to default, got %d", out[0].Metadata.Difficulty)
	}
	if out[0].Metadata.Tier != models.TierPremium {
		t.Errorf("enterprise must normalize to premium in metadata, got %q", out[0].Metadata.Tier)
	}
}
