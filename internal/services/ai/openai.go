package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/stuapp/suggest-api/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second

	// MaxPromptTasks caps how many tasks are inlined into a prompt
	MaxPromptTasks = 20

	// defaultTranscriptionConfidence is used when the transcription API does
	// not report a confidence of its own
	defaultTranscriptionConfidence = 0.9
)

// OpenAIEngine implements the Engine interface using OpenAI's API
type OpenAIEngine struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

var _ Engine = (*OpenAIEngine)(nil)

// NewOpenAIEngine creates a new OpenAI-backed generation engine
func NewOpenAIEngine(apiKey, baseURL, model string, logger *zap.Logger, debugMode bool) *OpenAIEngine {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIEngine{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// complete sends a chat completion expecting a JSON object response and
// returns the raw content.
func (e *OpenAIEngine) complete(ctx context.Context, operation, system, prompt string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(system),
		openai.UserMessage(prompt),
	}
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(e.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	requestID := ExtractRequestID(ctx)
	userID := ExtractUserID(ctx)

	if e.logger != nil && e.debugMode {
		e.logger.Debug("llm_api_request",
			zap.String("operation", operation),
			zap.String("model", e.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePrompt(prompt, true)),
			zap.String("user_id", userID),
			zap.String("request_id", requestID),
		)
	}

	start := time.Now()
	resp, err := e.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if e.logger != nil && e.debugMode {
			e.logger.Debug("llm_api_error",
				zap.String("operation", operation),
				zap.String("model", e.model),
				zap.Error(err),
				zap.String("user_id", userID),
				zap.String("request_id", requestID),
				zap.Duration("latency", latency),
			)
		}
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return "", fmt.Errorf("%s failed: %w", operation, apiErr)
		}
		return "", fmt.Errorf("%s failed: %w", operation, err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	if e.logger != nil && e.debugMode {
		e.logger.Debug("llm_api_response",
			zap.String("operation", operation),
			zap.String("model", e.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.String("user_id", userID),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return content, nil
}

// BasicSuggestions generates actionable suggestions from the caller's tasks
func (e *OpenAIEngine) BasicSuggestions(ctx context.Context, in *Input) ([]SuggestionDraft, error) {
	prompt := buildSuggestionPrompt(in, false)
	content, err := e.complete(ctx, "basic_suggestions", suggestionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parseSuggestionDrafts(content)
}

// AdvancedSuggestions generates richer suggestions that weigh study history
// and preferences more heavily
func (e *OpenAIEngine) AdvancedSuggestions(ctx context.Context, in *Input) ([]SuggestionDraft, error) {
	prompt := buildSuggestionPrompt(in, true)
	content, err := e.complete(ctx, "advanced_suggestions", suggestionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parseSuggestionDrafts(content)
}

// StudyPlan generates a single structured plan for the caller's workload
func (e *OpenAIEngine) StudyPlan(ctx context.Context, in *Input) (*PlanDraft, error) {
	prefs := in.Preferences
	prompt := fmt.Sprintf(
		"Build a study plan as JSON with keys title, summary, total_minutes and blocks "+
			"(subject, focus, duration_minutes, break_minutes). Preferred session length: %d minutes, "+
			"breaks: %d minutes, at most %d study hours today.\n\n%s",
		prefs.StudyDurationMinutes, prefs.BreakDurationMinutes, prefs.MaxDailyStudyHours,
		buildTaskSection(in),
	)
	content, err := e.complete(ctx, "study_planning", planSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parsePlanDraft(content)
}

// TranscribeVoice transcribes the supplied audio payload
func (e *OpenAIEngine) TranscribeVoice(ctx context.Context, in *Input, audio *AudioInput) (*Transcription, error) {
	data, err := base64.StdEncoding.DecodeString(audio.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode audio payload: %w", err)
	}

	format := audio.Format
	if format == "" {
		format = "webm"
	}

	resp, err := e.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModelWhisper1,
		File:  openai.File(bytes.NewReader(data), "audio."+format, "audio/"+format),
	})
	if err != nil {
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return nil, fmt.Errorf("voice transcription failed: %w", apiErr)
		}
		return nil, fmt.Errorf("voice transcription failed: %w", err)
	}

	return &Transcription{
		Text:       resp.Text,
		Confidence: defaultTranscriptionConfidence,
	}, nil
}

// PersonaMessage generates a short in-character message from Stu
func (e *OpenAIEngine) PersonaMessage(ctx context.Context, in *Input) (string, error) {
	prompt := fmt.Sprintf(
		"Write one short, encouraging message for the user. Respond as JSON: {\"message\": \"...\"}.\n\n%s",
		buildTaskSection(in),
	)
	content, err := e.complete(ctx, "stu_personality", personaSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	return parseMessage(content)
}

// Predictions generates per-task outcome predictions
func (e *OpenAIEngine) Predictions(ctx context.Context, in *Input) ([]Prediction, error) {
	prompt := fmt.Sprintf(
		"Predict outcomes for the user's tasks. Respond as JSON: {\"predictions\": "+
			"[{task_id, outcome, reasoning, confidence, priority, difficulty}]}.\n\n%s",
		buildTaskSection(in),
	)
	content, err := e.complete(ctx, "ml_predictions", predictionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parsePredictions(content)
}

// CommunityInsight generates an insight framed around what similar learners do
func (e *OpenAIEngine) CommunityInsight(ctx context.Context, in *Input) (string, error) {
	prompt := fmt.Sprintf(
		"Describe one habit of successful learners relevant to this workload. "+
			"Respond as JSON: {\"message\": \"...\"}.\n\n%s",
		buildTaskSection(in),
	)
	content, err := e.complete(ctx, "collaborative_filtering", insightSystemPrompt, prompt)
	if err != nil {
		return "", err
	}
	return parseMessage(content)
}

// Analytics generates a premium analytics summary of the caller's activity
func (e *OpenAIEngine) Analytics(ctx context.Context, in *Input) (*AnalyticsReport, error) {
	prompt := fmt.Sprintf(
		"Summarize this user's productivity. Respond as JSON with keys summary, "+
			"completion_rate, subject_breakdown and trends.\n\n%s",
		buildTaskSection(in),
	)
	content, err := e.complete(ctx, "premium_analytics", analyticsSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return parseAnalyticsReport(content)
}

const (
	suggestionSystemPrompt = "You are Stu, a study assistant that suggests concrete next actions. Respond with valid JSON only."
	planSystemPrompt       = "You are Stu, a study assistant that builds realistic study plans. Respond with valid JSON only."
	personaSystemPrompt    = "You are Stu, a friendly and slightly nerdy study buddy. Respond with valid JSON only."
	predictionSystemPrompt = "You are a prediction engine estimating task outcomes. Respond with valid JSON only."
	insightSystemPrompt    = "You surface insights about how successful learners work. Respond with valid JSON only."
	analyticsSystemPrompt  = "You are an analytics engine summarizing productivity data. Respond with valid JSON only."
)

func buildSuggestionPrompt(in *Input, advanced bool) string {
	var b strings.Builder
	if advanced {
		b.WriteString("Generate 3-5 suggestions as JSON: {\"suggestions\": [{title, description, reasoning, category, tags, confidence, difficulty, estimated_benefit}]}. ")
		b.WriteString("Weigh the user's preferences, recent activity and subject balance.\n\n")
	} else {
		b.WriteString("Generate 2-3 suggestions as JSON: {\"suggestions\": [{title, description, reasoning, category, tags, confidence, difficulty, estimated_benefit}]}.\n\n")
	}
	b.WriteString(buildTaskSection(in))
	return b.String()
}

// buildTaskSection renders the shared task/context portion of every prompt
func buildTaskSection(in *Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Current time: %s\n", in.CurrentTime.Format(time.RFC3339))
	prefs := in.Preferences
	fmt.Fprintf(&b, "Preferences: frequency=%s difficulty=%s focus_weak_subjects=%v\n",
		prefs.SuggestionFrequency, prefs.DifficultyPreference, boolValue(prefs.FocusOnWeakSubjects))

	writeTasks := func(label string, tasks []models.Task) {
		if len(tasks) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s:\n", label)
		for i, task := range tasks {
			if i >= MaxPromptTasks {
				fmt.Fprintf(&b, "  ... and %d more\n", len(tasks)-MaxPromptTasks)
				break
			}
			fmt.Fprintf(&b, "  - [%s] %s", statusMark(task.Completed), task.Title)
			if task.Subject != "" {
				fmt.Fprintf(&b, " (subject: %s)", task.Subject)
			}
			if task.DueDate != nil {
				fmt.Fprintf(&b, " (due: %s)", task.DueDate.Format("2006-01-02"))
			}
			if task.Priority != "" {
				fmt.Fprintf(&b, " (priority: %s)", task.Priority)
			}
			b.WriteString("\n")
		}
	}

	writeTasks("Tasks", in.Tasks)
	writeTasks("Upcoming", in.Upcoming)
	writeTasks("Recently completed", in.Recent)

	return b.String()
}

func statusMark(completed bool) string {
	if completed {
		return "done"
	}
	return "open"
}

func boolValue(b *bool) bool {
	return b != nil && *b
}

// extractJSON trims any non-JSON wrapper the model added around its response
func extractJSON(content string) string {
	if len(content) > 0 && content[0] == '{' {
		return content
	}
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start != -1 && end != -1 && end > start {
		return content[start : end+1]
	}
	return content
}

func parseSuggestionDrafts(content string) ([]SuggestionDraft, error) {
	var parsed struct {
		Suggestions []SuggestionDraft `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions response: %w", err)
	}
	if len(parsed.Suggestions) == 0 {
		return nil, fmt.Errorf("suggestions response was empty")
	}
	return parsed.Suggestions, nil
}

func parsePlanDraft(content string) (*PlanDraft, error) {
	var plan PlanDraft
	if err := json.Unmarshal([]byte(extractJSON(content)), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan response: %w", err)
	}
	if plan.Title == "" && len(plan.Blocks) == 0 {
		return nil, fmt.Errorf("plan response was empty")
	}
	return &plan, nil
}

func parseMessage(content string) (string, error) {
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &parsed); err != nil {
		return "", fmt.Errorf("failed to parse message response: %w", err)
	}
	if parsed.Message == "" {
		return "", fmt.Errorf("message response was empty")
	}
	return parsed.Message, nil
}

func parsePredictions(content string) ([]Prediction, error) {
	var parsed struct {
		Predictions []Prediction `json:"predictions"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse predictions response: %w", err)
	}
	if len(parsed.Predictions) == 0 {
		return nil, fmt.Errorf("predictions response was empty")
	}
	return parsed.Predictions, nil
}

func parseAnalyticsReport(content string) (*AnalyticsReport, error) {
	var report AnalyticsReport
	if err := json.Unmarshal([]byte(extractJSON(content)), &report); err != nil {
		return nil, fmt.Errorf("failed to parse analytics response: %w", err)
	}
	if report.Summary == "" {
		return nil, fmt.Errorf("analytics response was empty")
	}
	return &report, nil
}
