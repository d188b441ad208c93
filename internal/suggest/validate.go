package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stuapp/suggest-api/internal/models"
	"github.com/stuapp/suggest-api/internal/services/ai"
	"github.com/stuapp/suggest-api/internal/validation"
)

// currentTimeLayouts are the timestamp formats accepted for
// context.current_time, tried in order.
var currentTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// RequestContext carries the situational payload every feature handler
// receives alongside the task list.
type RequestContext struct {
	CurrentTime string             `json:"current_time,omitempty"`
	Upcoming    []models.Task      `json:"upcoming_tasks,omitempty" validate:"omitempty,dive"`
	Recent      []models.Task      `json:"recent_activity,omitempty" validate:"omitempty,dive"`
	Preferences models.Preferences `json:"preferences,omitempty"`
}

// Request is the typed, feature-tagged request produced by validation. The
// feature tag decides which optional fields are required: voice processing
// needs Audio, everything else ignores it.
type Request struct {
	Feature string         `json:"feature" validate:"required"`
	Tasks   []models.Task  `json:"tasks,omitempty" validate:"omitempty,dive"`
	Context RequestContext `json:"context,omitempty"`
	Audio   *ai.AudioInput `json:"audio,omitempty"`

	currentTime time.Time
}

// CurrentTime returns the parsed context timestamp, defaulting to now when
// the request omitted it.
func (r *Request) CurrentTime() time.Time {
	return r.currentTime
}

// ParseRequest parses and structurally validates a raw JSON payload into a
// Request. All structural violations are collected before returning; the
// result is either a request with preference defaults applied or a
// validation failure carrying every field error found.
func ParseRequest(raw []byte) (*Request, *PipelineError) {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, errValidation(map[string][]string{
			"body": {"request body must be valid JSON"},
		})
	}

	fieldErrors := make(map[string][]string)

	if err := validation.Validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				field := fieldName(fe)
				fieldErrors[field] = append(fieldErrors[field], fieldMessage(fe))
			}
		} else {
			return nil, errInternal(fmt.Errorf("payload validation: %w", err))
		}
	}

	req.currentTime = time.Now().UTC()
	if req.Context.CurrentTime != "" {
		parsed, err := parseCurrentTime(req.Context.CurrentTime)
		if err != nil {
			fieldErrors["context.current_time"] = append(
				fieldErrors["context.current_time"],
				"must be a valid timestamp",
			)
		} else {
			req.currentTime = parsed
		}
	}

	if len(fieldErrors) > 0 {
		return nil, errValidation(fieldErrors)
	}

	req.Feature = validation.SanitizeText(req.Feature)
	req.Context.Preferences = req.Context.Preferences.WithDefaults()
	return &req, nil
}

func parseCurrentTime(value string) (time.Time, error) {
	for _, layout := range currentTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", value)
}

// fieldName turns a validator namespace like "Request.tasks[0].title" into
// the wire-facing path "tasks[0].title".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i != -1 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "task_priority":
		return "must be one of 'low', 'medium', 'high'"
	case "suggestion_frequency":
		return "must be one of 'low', 'moderate', 'high'"
	case "difficulty_preference":
		return "must be one of 'easy', 'adaptive', 'hard'"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
