package ai

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stuapp/suggest-api/internal/models"
)

// Input carries everything a generation handler receives: the caller, their
// tier, and the task/context payload after preference defaults were applied.
type Input struct {
	UserID      uuid.UUID
	Tier        models.SubscriptionTier
	Tasks       []models.Task
	CurrentTime time.Time
	Upcoming    []models.Task
	Recent      []models.Task
	Preferences models.Preferences
}

// AudioInput is the extra payload required by voice processing
type AudioInput struct {
	Data       string `json:"data"` // base64-encoded audio
	Format     string `json:"format,omitempty"`
	DurationMs int    `json:"duration_ms,omitempty"`
}

// SuggestionDraft is a raw suggestion as produced by a generation handler,
// before normalization into the response schema.
type SuggestionDraft struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Reasoning        string   `json:"reasoning,omitempty"`
	Category         string   `json:"category,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Confidence       float64  `json:"confidence,omitempty"`
	Difficulty       int      `json:"difficulty,omitempty"`
	EstimatedBenefit float64  `json:"estimated_benefit,omitempty"`
}

// StudyBlock is one block of a generated study plan
type StudyBlock struct {
	Subject         string `json:"subject"`
	Focus           string `json:"focus,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	BreakMinutes    int    `json:"break_minutes,omitempty"`
}

// PlanDraft is the structured study plan a handler produces
type PlanDraft struct {
	Title        string       `json:"title"`
	Summary      string       `json:"summary"`
	Blocks       []StudyBlock `json:"blocks"`
	TotalMinutes int          `json:"total_minutes"`
}

// Transcription is the voice processing result
type Transcription struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language,omitempty"`
}

// Prediction is a single ML-style prediction about a task
type Prediction struct {
	TaskID     string  `json:"task_id,omitempty"`
	Outcome    string  `json:"outcome"`
	Reasoning  string  `json:"reasoning,omitempty"`
	Confidence float64 `json:"confidence"`
	Priority   string  `json:"priority,omitempty"`
	Difficulty int     `json:"difficulty,omitempty"`
}

// AnalyticsReport is the premium analytics summary payload
type AnalyticsReport struct {
	Summary          string             `json:"summary"`
	CompletionRate   float64            `json:"completion_rate"`
	SubjectBreakdown map[string]float64 `json:"subject_breakdown,omitempty"`
	Trends           []string           `json:"trends,omitempty"`
}

// Engine is the generation collaborator behind the feature dispatcher. Each
// method backs one feature handler and is treated as an opaque external
// call: invoked at most once per request, never retried here.
type Engine interface {
	BasicSuggestions(ctx context.Context, in *Input) ([]SuggestionDraft, error)
	AdvancedSuggestions(ctx context.Context, in *Input) ([]SuggestionDraft, error)
	StudyPlan(ctx context.Context, in *Input) (*PlanDraft, error)
	TranscribeVoice(ctx context.Context, in *Input, audio *AudioInput) (*Transcription, error)
	PersonaMessage(ctx context.Context, in *Input) (string, error)
	Predictions(ctx context.Context, in *Input) ([]Prediction, error)
	CommunityInsight(ctx context.Context, in *Input) (string, error)
	Analytics(ctx context.Context, in *Input) (*AnalyticsReport, error)
}
