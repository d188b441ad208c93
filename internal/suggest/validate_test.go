package suggest

import (
	"testing"
	"time"

	"github.com/stuapp/suggest-api/internal/models"
)

func TestParseRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantFields []string
		validate   func(t *testing.T, req *Request)
	}{
		{
			name: "valid request",
			body: `{
				"feature": "basic_suggestions",
				"tasks": [{"id":"t1","title":"Read chapter 3","completed":false,"priority":"high"}],
				"context": {"current_time": "2025-03-10T09:00:00Z"}
			}`,
			validate: func(t *testing.T, req *Request) {
				if req.Feature != "basic_suggestions" {
					t.Errorf("unexpected feature %q", req.Feature)
				}
				want := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
				if !req.CurrentTime().Equal(want) {
					t.Errorf("unexpected current time %v", req.CurrentTime())
				}
			},
		},
		{
			name:       "invalid json",
			body:       `{"feature":`,
			wantFields: []string{"body"},
		},
		{
			name:       "missing feature",
			body:       `{"tasks":[]}`,
			wantFields: []string{"feature"},
		},
		{
			name: "errors accumulate across fields",
			body: `{
				"tasks": [{"id":"t1"},{"title":"no id"}],
				"context": {"current_time": "not a time"}
			}`,
			wantFields: []string{"feature", "tasks[0].title", "tasks[1].id", "context.current_time"},
		},
		{
			name:       "invalid task priority",
			body:       `{"feature":"basic_suggestions","tasks":[{"id":"t1","title":"x","priority":"urgent"}]}`,
			wantFields: []string{"tasks[0].priority"},
		},
		{
			name:       "difficulty out of range",
			body:       `{"feature":"basic_suggestions","tasks":[{"id":"t1","title":"x","difficulty":11}]}`,
			wantFields: []string{"tasks[0].difficulty"},
		},
		{
			name:       "invalid preference enum",
			body:       `{"feature":"basic_suggestions","context":{"preferences":{"suggestion_frequency":"constant"}}}`,
			wantFields: []string{"context.preferences.suggestion_frequency"},
		},
		{
			name: "preference defaults applied",
			body: `{"feature":"study_planning"}`,
			validate: func(t *testing.T, req *Request) {
				prefs := req.Context.Preferences
				if prefs.SuggestionFrequency != models.FrequencyModerate {
					t.Errorf("expected moderate frequency default, got %q", prefs.SuggestionFrequency)
				}
				if prefs.StudyDurationMinutes != models.DefaultStudyDurationMinutes {
					t.Errorf("expected study duration default, got %d", prefs.StudyDurationMinutes)
				}
				if prefs.EnableSuggestions == nil || !*prefs.EnableSuggestions {
					t.Error("expected enable_suggestions default true")
				}
			},
		},
		{
			name: "missing current_time defaults to now",
			body: `{"feature":"basic_suggestions"}`,
			validate: func(t *testing.T, req *Request) {
				if time.Since(req.CurrentTime()) > time.Minute {
					t.Errorf("expected current time near now, got %v", req.CurrentTime())
				}
			},
		},
		{
			name: "space-separated timestamp accepted",
			body: `{"feature":"basic_suggestions","context":{"current_time":"2025-03-10 09:00:00"}}`,
			validate: func(t *testing.T, req *Request) {
				if req.CurrentTime().Hour() != 9 {
					t.Errorf("unexpected parsed time %v", req.CurrentTime())
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req, perr := ParseRequest([]byte(tt.body))
			if len(tt.wantFields) > 0 {
				if perr == nil {
					t.Fatal("expected validation failure")
				}
				if perr.Kind != FailureValidation {
					t.Fatalf("expected validation failure, got %s", perr.Kind)
				}
				for _, field := range tt.wantFields {
					if _, ok := perr.FieldErrors[field]; !ok {
						t.Errorf("expected field error for %q, got %v", field, perr.FieldErrors)
					}
				}
				return
			}
			if perr != nil {
				t.Fatalf("unexpected failure: %v (%v)", perr, perr.FieldErrors)
			}
			if tt.validate != nil {
				tt.validate(t, req)
			}
		})
	}
}
