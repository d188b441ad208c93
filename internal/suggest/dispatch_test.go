package suggest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stuapp/suggest-api/internal/models"
	"github.com/stuapp/suggest-api/internal/services/ai"
)

func dispatchInput(tier models.SubscriptionTier) *ai.Input {
	return &ai.Input{
		UserID:      uuid.New(),
		Tier:        tier,
		Preferences: models.Preferences{}.WithDefaults(),
	}
}

func TestDispatchInvokesSelectedHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		feature    string
		wantMethod string
		wantSource models.Feature
	}{
		{"basic_suggestions", "basic", models.FeatureBasicSuggestions},
		{"advanced_suggestions", "advanced", models.FeatureAdvancedSuggestions},
		{"study_planning", "plan", models.FeatureStudyPlanning},
		{"stu_personality", "persona", models.FeatureStuPersonality},
		{"ml_predictions", "predictions", models.FeatureMLPredictions},
		{"collaborative_filtering", "insight", models.FeatureCollaborativeFiltering},
		{"premium_analytics", "analytics", models.FeaturePremiumAnalytics},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.feature, func(t *testing.T) {
			t.Parallel()
			eng := newStubEngine()
			req := &Request{Feature: tt.feature}

			out, perr := Dispatch(context.Background(), eng, req, dispatchInput(models.TierPremiumPlus))
			if perr != nil {
				t.Fatalf("unexpected failure: %v", perr)
			}
			if eng.callCount(tt.wantMethod) != 1 {
				t.Errorf("expected exactly one %s call, got %d", tt.wantMethod, eng.callCount(tt.wantMethod))
			}
			if eng.totalCalls() != 1 {
				t.Errorf("exactly one handler must run, got %d calls", eng.totalCalls())
			}
			if len(out) == 0 || out[0].Source != tt.wantSource {
				t.Errorf("expected records sourced from %s, got %+v", tt.wantSource, out)
			}
		})
	}
}

func TestDispatchVoice(t *testing.T) {
	t.Parallel()

	t.Run("with audio", func(t *testing.T) {
		t.Parallel()
		eng := newStubEngine()
		req := &Request{
			Feature: "voice_processing",
			Audio:   &ai.AudioInput{Data: "c29tZSBhdWRpbw==", Format: "webm"},
		}

		out, perr := Dispatch(context.Background(), eng, req, dispatchInput(models.TierPremium))
		if perr != nil {
			t.Fatalf("unexpected failure: %v", perr)
		}
		if eng.callCount("voice") != 1 {
			t.Errorf("expected one voice call, got %d", eng.callCount("voice"))
		}
		if out[0].Source != models.FeatureVoiceProcessing {
			t.Errorf("unexpected source %q", out[0].Source)
		}
	})

	t.Run("without audio", func(t *testing.T) {
		t.Parallel()
		eng := newStubEngine()
		req := &Request{Feature: "voice_processing"}

		_, perr := Dispatch(context.Background(), eng, req, dispatchInput(models.TierPremium))
		if perr == nil || perr.Kind != FailureMissingInput {
			t.Fatalf("expected missing_input, got %v", perr)
		}
		if eng.totalCalls() != 0 {
			t.Error("the engine must not be touched when required input is missing")
		}
	})

	t.Run("empty audio data", func(t *testing.T) {
		t.Parallel()
		eng := newStubEngine()
		req := &Request{Feature: "voice_processing", Audio: &ai.AudioInput{}}

		_, perr := Dispatch(context.Background(), eng, req, dispatchInput(models.TierPremium))
		if perr == nil || perr.Kind != FailureMissingInput {
			t.Fatalf("expected missing_input, got %v", perr)
		}
	})
}

func TestDispatchUnknownTagFallsBack(t *testing.T) {
	t.Parallel()

	eng := newStubEngine()
	req := &Request{Feature: "brand_new_thing"}

	out, perr := Dispatch(context.Background(), eng, req, dispatchInput(models.TierFree))
	if perr != nil {
		t.Fatalf("unexpected failure: %v", perr)
	}
	if eng.callCount("basic") != 1 {
		t.Errorf("unknown tags must dispatch to basic suggestions, got calls %v", eng.calls)
	}
	if out[0].Source != models.FeatureBasicSuggestions {
		t.Errorf("unexpected source %q", out[0].Source)
	}
}

func TestDispatchEngineFailure(t *testing.T) {
	t.Parallel()

	eng := newStubEngine()
	eng.err = fmt.Errorf("upstream 500")
	req := &Request{Feature: "basic_suggestions"}

	_, perr := Dispatch(context.Background(), eng, req, dispatchInput(models.TierFree))
	if perr == nil || perr.Kind != FailureHandlerUnavailable {
		t.Fatalf("expected handler_unavailable, got %v", perr)
	}
	if perr.Message != MsgHandlerUnavailable {
		t.Errorf("engine errors must be replaced by the generic message, got %q", perr.Message)
	}
	if eng.callCount("basic") != 1 {
		t.Errorf("handler must be invoked at most once, got %d", eng.callCount("basic"))
	}
}
