package validation

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/stuapp/suggest-api/internal/models"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	// Report field errors using wire names, not Go struct names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Register custom validators for enums
	// These should never fail in normal operation, but panic loudly if they do
	if err := Validate.RegisterValidation("task_priority", validateTaskPriority); err != nil {
		panic(fmt.Sprintf("failed to register task_priority validator: %v", err))
	}
	if err := Validate.RegisterValidation("suggestion_frequency", validateSuggestionFrequency); err != nil {
		panic(fmt.Sprintf("failed to register suggestion_frequency validator: %v", err))
	}
	if err := Validate.RegisterValidation("difficulty_preference", validateDifficultyPreference); err != nil {
		panic(fmt.Sprintf("failed to register difficulty_preference validator: %v", err))
	}
}

// validateTaskPriority validates that a string is a valid TaskPriority enum value
func validateTaskPriority(fl validator.FieldLevel) bool {
	switch models.TaskPriority(fl.Field().String()) {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		return true
	default:
		return false
	}
}

// validateSuggestionFrequency validates that a string is a valid SuggestionFrequency enum value
func validateSuggestionFrequency(fl validator.FieldLevel) bool {
	switch models.SuggestionFrequency(fl.Field().String()) {
	case models.FrequencyLow, models.FrequencyModerate, models.FrequencyHigh:
		return true
	default:
		return false
	}
}

// validateDifficultyPreference validates that a string is a valid DifficultyPreference enum value
func validateDifficultyPreference(fl validator.FieldLevel) bool {
	switch models.DifficultyPreference(fl.Field().String()) {
	case models.DifficultyEasy, models.DifficultyAdaptive, models.DifficultyHard:
		return true
	default:
		return false
	}
}

// SanitizeText sanitizes text input by trimming whitespace and removing control characters
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateTaskPriority validates a TaskPriority string value
func ValidateTaskPriority(value string) error {
	switch models.TaskPriority(value) {
	case models.TaskPriorityLow, models.TaskPriorityMedium, models.TaskPriorityHigh:
		return nil
	default:
		return fmt.Errorf("invalid priority: %s (must be 'low', 'medium', or 'high')", value)
	}
}
