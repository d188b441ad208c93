package models

import "time"

// SuggestionPriority represents how strongly a suggestion is recommended
type SuggestionPriority string

const (
	SuggestionPriorityLow    SuggestionPriority = "low"
	SuggestionPriorityMedium SuggestionPriority = "medium"
	SuggestionPriorityHigh   SuggestionPriority = "high"
)

// SuggestionMetadata is the metadata bag attached to every suggestion.
// Category, tags, difficulty, estimated benefit, tier and confidence are
// always populated; Extra carries the handler-specific nested payload.
type SuggestionMetadata struct {
	Category         string           `json:"category"`
	Tags             []string         `json:"tags"`
	Difficulty       int              `json:"difficulty"`
	EstimatedBenefit float64          `json:"estimated_benefit"`
	Tier             SubscriptionTier `json:"tier"`
	Confidence       float64          `json:"confidence"`
	Extra            map[string]any   `json:"extra,omitempty"`
}

// Suggestion is the normalized output unit returned to the caller regardless
// of which feature handler produced it. Constructed fresh per request, never
// persisted.
type Suggestion struct {
	ID          string             `json:"id"`
	Type        string             `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    SuggestionPriority `json:"priority"`
	Source      Feature            `json:"source"`
	CreatedAt   time.Time          `json:"created_at"`
	Confidence  float64            `json:"confidence"`
	Reasoning   string             `json:"reasoning,omitempty"`
	Metadata    SuggestionMetadata `json:"metadata"`
}
