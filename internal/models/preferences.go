package models

// SuggestionFrequency controls how often the app surfaces suggestions
type SuggestionFrequency string

const (
	FrequencyLow      SuggestionFrequency = "low"
	FrequencyModerate SuggestionFrequency = "moderate"
	FrequencyHigh     SuggestionFrequency = "high"
)

// DifficultyPreference controls how hard suggested work should be
type DifficultyPreference string

const (
	DifficultyEasy     DifficultyPreference = "easy"
	DifficultyAdaptive DifficultyPreference = "adaptive"
	DifficultyHard     DifficultyPreference = "hard"
)

// Default preference values applied when a request omits a field.
const (
	DefaultStudyDurationMinutes = 45
	DefaultBreakDurationMinutes = 15
	DefaultMaxDailyStudyHours   = 8
	DefaultReminderAdvanceMin   = 30
)

// Preferences is the user preference bag carried in the request context.
// Boolean fields are pointers so that an omitted field and an explicit false
// can be told apart when defaults are applied.
type Preferences struct {
	EnableSuggestions    *bool                `json:"enable_suggestions,omitempty"`
	SuggestionFrequency  SuggestionFrequency  `json:"suggestion_frequency,omitempty" validate:"omitempty,suggestion_frequency"`
	DifficultyPreference DifficultyPreference `json:"difficulty_preference,omitempty" validate:"omitempty,difficulty_preference"`
	StudyDurationMinutes int                  `json:"preferred_study_duration_minutes,omitempty" validate:"omitempty,min=1"`
	BreakDurationMinutes int                  `json:"preferred_break_duration_minutes,omitempty" validate:"omitempty,min=1"`
	MaxDailyStudyHours   int                  `json:"max_daily_study_hours,omitempty" validate:"omitempty,min=1,max=24"`
	ReminderAdvanceMin   int                  `json:"reminder_advance_time_minutes,omitempty" validate:"omitempty,min=0"`
	AdaptiveDifficulty   *bool                `json:"adaptive_difficulty,omitempty"`
	FocusOnWeakSubjects  *bool                `json:"focus_on_weak_subjects,omitempty"`
	BalanceSubjects      *bool                `json:"balance_subjects,omitempty"`
}

// WithDefaults returns a copy with every omitted field filled in.
func (p Preferences) WithDefaults() Preferences {
	out := p
	if out.EnableSuggestions == nil {
		out.EnableSuggestions = boolPtr(true)
	}
	if out.SuggestionFrequency == "" {
		out.SuggestionFrequency = FrequencyModerate
	}
	if out.DifficultyPreference == "" {
		out.DifficultyPreference = DifficultyAdaptive
	}
	if out.StudyDurationMinutes == 0 {
		out.StudyDurationMinutes = DefaultStudyDurationMinutes
	}
	if out.BreakDurationMinutes == 0 {
		out.BreakDurationMinutes = DefaultBreakDurationMinutes
	}
	if out.MaxDailyStudyHours == 0 {
		out.MaxDailyStudyHours = DefaultMaxDailyStudyHours
	}
	if out.ReminderAdvanceMin == 0 {
		out.ReminderAdvanceMin = DefaultReminderAdvanceMin
	}
	if out.AdaptiveDifficulty == nil {
		out.AdaptiveDifficulty = boolPtr(true)
	}
	if out.FocusOnWeakSubjects == nil {
		out.FocusOnWeakSubjects = boolPtr(true)
	}
	if out.BalanceSubjects == nil {
		out.BalanceSubjects = boolPtr(true)
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
