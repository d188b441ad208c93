package suggest

import (
	"context"
	"time"

	"github.com/stuapp/suggest-api/internal/models"
	"github.com/stuapp/suggest-api/internal/services/ai"
)

// MsgAudioRequired is returned when voice processing is requested without an
// audio payload.
const MsgAudioRequired = "Voice processing requires an audio payload"

// featureHandler binds one feature tag to its input requirements and its
// invoke-then-normalize pipeline. Adding a feature means adding a registry
// entry, not touching the router.
type featureHandler struct {
	feature    models.Feature
	needsAudio bool
	run        func(ctx context.Context, eng ai.Engine, in *ai.Input, audio *ai.AudioInput, now time.Time) ([]models.Suggestion, error)
}

var handlerRegistry = map[models.Feature]featureHandler{
	models.FeatureBasicSuggestions: {
		feature: models.FeatureBasicSuggestions,
		run: func(ctx context.Context, eng ai.Engine, in *ai.Input, _ *ai.AudioInput, now time.Time) ([]models.Suggestion, error) {
			drafts, err := eng.BasicSuggestions(ctx, in)
			if err != nil {
				return nil, err
			}
			return normalizeDrafts(models.FeatureBasicSuggestions, in.Tier, now, drafts)
		},
	},
	models.FeatureAdvancedSuggestions: {
		feature: models.FeatureAdvancedSuggestions,
		run: func(ctx context.Context, eng ai.Engine, in *ai.Input, _ *ai.AudioInput, now time.Time) ([]models.Suggestion, error) {
			drafts, err := eng.AdvancedSuggestions(ctx, in)
			if err != nil {
				return nil, err
			}
			return normalizeDrafts(models.FeatureAdvancedSuggestions, in.Tier, now, drafts)
		},
	},
	models.FeatureStudyPlanning: {
		feature: models.FeatureStudyPlanning,
		run: func(ctx context.Context, eng ai.Engine, in *ai.Input, _ *ai.AudioInput, now time.Time) ([]models.Suggestion, error) {
			plan, err := eng.StudyPlan(ctx, in)
			if err != nil {
				return nil, err
			}
			return normalizePlan(in.Tier, now, plan)
		},
	},
	models.FeatureVoiceProcessing: {
		feature:    models.FeatureVoiceProcessing,
		needsAudio: true,
		run: func(ctx context.Context, eng ai.Engine, in *ai.Input, audio *ai.AudioInput, now time.Time) ([]models.Suggestion, error) {
			tr, err := eng.TranscribeVoice(ctx, in, audio)
			if err != nil {
				return nil, err
			}
			return normalizeTranscription(in.Tier, now, tr)
		},
	},
	models.FeatureStuPersonality: {
		feature: models.FeatureStuPersonality,
		run: func(ctx context.Context, eng ai.Engine, in *ai.Input, _ *ai.AudioInput, now time.Time) ([]models.Suggestion, error) {
			msg, err := eng.PersonaMessage(ctx, in)
			if err != nil {
				return nil, err
			}
			return normalizeMessage(models.FeatureStuPersonality, in.Tier, now, "A note from Stu", msg)
		},
	},
	models.FeatureMLPredictions: {
		feature: models.FeatureMLPredictions,
		run: func(ctx context.Context, eng ai.Engine, in *ai.Input, _ *ai.AudioInput, now time.Time) ([]models.Suggestion, error) {
			preds, err := eng.Predictions(ctx, in)
			if err != nil {
				return nil, err
			}
			return normalizePredictions(in.Tier, now, preds)
		},
	},
	models.FeatureCollaborativeFiltering: {
		feature: models.FeatureCollaborativeFiltering,
		run: func(ctx context.Context, eng ai.Engine, in *ai.Input, _ *ai.AudioInput, now time.Time) ([]models.Suggestion, error) {
			msg, err := eng.CommunityInsight(ctx, in)
			if err != nil {
				return nil, err
			}
			return normalizeMessage(models.FeatureCollaborativeFiltering, in.Tier, now, "What similar learners do", msg)
		},
	},
	models.FeaturePremiumAnalytics: {
		feature: models.FeaturePremiumAnalytics,
		run: func(ctx context.Context, eng ai.Engine, in *ai.Input, _ *ai.AudioInput, now time.Time) ([]models.Suggestion, error) {
			report, err := eng.Analytics(ctx, in)
			if err != nil {
				return nil, err
			}
			return normalizeAnalytics(in.Tier, now, report)
		},
	},
}

// resolveHandler maps a feature tag to its handler. Unrecognized tags fall
// back to basic suggestions rather than failing.
func resolveHandler(tag string) featureHandler {
	if h, ok := handlerRegistry[models.Feature(tag)]; ok {
		return h
	}
	return handlerRegistry[models.FeatureBasicSuggestions]
}

// Dispatch invokes exactly one feature handler for the request. The handler
// is called at most once with no retry; any engine error or empty output is
// reported as a handler failure with a generic message. Missing required
// input is caught before the engine is touched.
func Dispatch(ctx context.Context, eng ai.Engine, req *Request, in *ai.Input) ([]models.Suggestion, *PipelineError) {
	h := resolveHandler(req.Feature)

	if h.needsAudio && (req.Audio == nil || req.Audio.Data == "") {
		return nil, errMissingInput(MsgAudioRequired)
	}

	suggestions, err := h.run(ctx, eng, in, req.Audio, time.Now().UTC())
	if err != nil {
		return nil, errHandlerUnavailable(err)
	}
	return suggestions, nil
}
