package models

import "testing"

func TestPreferencesWithDefaults(t *testing.T) {
	t.Parallel()

	t.Run("empty preferences get all defaults", func(t *testing.T) {
		t.Parallel()

		p := Preferences{}.WithDefaults()

		if p.EnableSuggestions == nil || !*p.EnableSuggestions {
			t.Error("Expected enable_suggestions to default to true")
		}
		if p.SuggestionFrequency != FrequencyModerate {
			t.Errorf("Expected frequency %q, got %q", FrequencyModerate, p.SuggestionFrequency)
		}
		if p.DifficultyPreference != DifficultyAdaptive {
			t.Errorf("Expected difficulty %q, got %q", DifficultyAdaptive, p.DifficultyPreference)
		}
		if p.StudyDurationMinutes != DefaultStudyDurationMinutes {
			t.Errorf("Expected study duration %d, got %d", DefaultStudyDurationMinutes, p.StudyDurationMinutes)
		}
		if p.BreakDurationMinutes != DefaultBreakDurationMinutes {
			t.Errorf("Expected break duration %d, got %d", DefaultBreakDurationMinutes, p.BreakDurationMinutes)
		}
		if p.MaxDailyStudyHours != DefaultMaxDailyStudyHours {
			t.Errorf("Expected max daily study hours %d, got %d", DefaultMaxDailyStudyHours, p.MaxDailyStudyHours)
		}
		if p.ReminderAdvanceMin != DefaultReminderAdvanceMin {
			t.Errorf("Expected reminder advance %d, got %d", DefaultReminderAdvanceMin, p.ReminderAdvanceMin)
		}
		if p.AdaptiveDifficulty == nil || !*p.AdaptiveDifficulty {
			t.Error("Expected adaptive_difficulty to default to true")
		}
		if p.FocusOnWeakSubjects == nil || !*p.FocusOnWeakSubjects {
			t.Error("Expected focus_on_weak_subjects to default to true")
		}
		if p.BalanceSubjects == nil || !*p.BalanceSubjects {
			t.Error("Expected balance_subjects to default to true")
		}
	})

	t.Run("explicit false is preserved", func(t *testing.T) {
		t.Parallel()

		off := false
		p := Preferences{EnableSuggestions: &off, BalanceSubjects: &off}.WithDefaults()

		if *p.EnableSuggestions {
			t.Error("Expected explicit enable_suggestions=false to survive defaulting")
		}
		if *p.BalanceSubjects {
			t.Error("Expected explicit balance_subjects=false to survive defaulting")
		}
	})

	t.Run("explicit values are preserved", func(t *testing.T) {
		t.Parallel()

		p := Preferences{
			SuggestionFrequency:  FrequencyHigh,
			StudyDurationMinutes: 25,
		}.WithDefaults()

		if p.SuggestionFrequency != FrequencyHigh {
			t.Errorf("Expected frequency %q, got %q", FrequencyHigh, p.SuggestionFrequency)
		}
		if p.StudyDurationMinutes != 25 {
			t.Errorf("Expected study duration 25, got %d", p.StudyDurationMinutes)
		}
	})
}
