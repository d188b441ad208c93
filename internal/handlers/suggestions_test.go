package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stuapp/suggest-api/internal/models"
	"github.com/stuapp/suggest-api/internal/request"
	"github.com/stuapp/suggest-api/internal/services/ai"
	"github.com/stuapp/suggest-api/internal/suggest"
)

type fixedTierResolver struct {
	tier models.SubscriptionTier
}

func (f *fixedTierResolver) ResolveTier(context.Context, uuid.UUID) (models.SubscriptionTier, error) {
	return f.tier, nil
}

type countingUsageRepo struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *countingUsageRepo) key(userID uuid.UUID, date string) string {
	return userID.String() + "/" + date
}

func (c *countingUsageRepo) GetCount(_ context.Context, userID uuid.UUID, date string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[c.key(userID, date)], nil
}

func (c *countingUsageRepo) Increment(_ context.Context, userID uuid.UUID, date string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := c.key(userID, date)
	c.counts[k]++
	return c.counts[k], nil
}

type cannedEngine struct {
	err error
}

func (e *cannedEngine) drafts() ([]ai.SuggestionDraft, error) {
	if e.err != nil {
		return nil, e.err
	}
	return []ai.SuggestionDraft{{Title: "Review notes", Description: "Go over chapter 4"}}, nil
}

func (e *cannedEngine) BasicSuggestions(context.Context, *ai.Input) ([]ai.SuggestionDraft, error) {
	return e.drafts()
}

func (e *cannedEngine) AdvancedSuggestions(context.Context, *ai.Input) ([]ai.SuggestionDraft, error) {
	return e.drafts()
}

func (e *cannedEngine) StudyPlan(context.Context, *ai.Input) (*ai.PlanDraft, error) {
	return &ai.PlanDraft{Title: "Plan", Summary: "s"}, e.err
}

func (e *cannedEngine) TranscribeVoice(context.Context, *ai.Input, *ai.AudioInput) (*ai.Transcription, error) {
	return &ai.Transcription{Text: "hello"}, e.err
}

func (e *cannedEngine) PersonaMessage(context.Context, *ai.Input) (string, error) {
	return "Nice work!", e.err
}

func (e *cannedEngine) Predictions(context.Context, *ai.Input) ([]ai.Prediction, error) {
	return []ai.Prediction{{Outcome: "on track", Confidence: 0.7}}, e.err
}

func (e *cannedEngine) CommunityInsight(context.Context, *ai.Input) (string, error) {
	return "Review daily", e.err
}

func (e *cannedEngine) Analytics(context.Context, *ai.Input) (*ai.AnalyticsReport, error) {
	return &ai.AnalyticsReport{Summary: "Good"}, e.err
}

func newTestHandler(tier models.SubscriptionTier, engineErr error) *SuggestionsHandler {
	usage := &countingUsageRepo{counts: make(map[string]int)}
	ledger := suggest.NewLedger(usage, suggest.NewLimitResolver(nil, nil))
	router := suggest.NewRouter(&fixedTierResolver{tier: tier}, ledger, &cannedEngine{err: engineErr}, nil, nil)
	return NewSuggestionsHandler(router)
}

func doRequest(t *testing.T, h *SuggestionsHandler, method, path, body string, user *models.User) *httptest.ResponseRecorder {
	t.Helper()

	r := mux.NewRouter()
	h.RegisterRoutes(r.PathPrefix("/api/v1/ai").Subrouter())

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if user != nil {
		req = req.WithContext(request.WithUser(req.Context(), user))
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestPostSuggestions(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New(), Email: "sam@example.com"}
	validBody := `{"feature":"basic_suggestions","tasks":[{"id":"t1","title":"Read"}]}`

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(models.TierFree, nil)
		w := doRequest(t, h, http.MethodPost, "/api/v1/ai/suggestions", validBody, user)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		body := decodeEnvelope(t, w)
		if success, _ := body["success"].(bool); !success {
			t.Error("expected success=true")
		}
		usage, _ := body["usage"].(map[string]any)
		if usage["requests_used"] != float64(1) {
			t.Errorf("expected requests_used=1, got %v", usage["requests_used"])
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(models.TierFree, nil)
		w := doRequest(t, h, http.MethodPost, "/api/v1/ai/suggestions", validBody, nil)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})

	t.Run("validation failure", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(models.TierFree, nil)
		w := doRequest(t, h, http.MethodPost, "/api/v1/ai/suggestions", `{"tasks":[]}`, user)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
		body := decodeEnvelope(t, w)
		if _, ok := body["field_errors"].(map[string]any); !ok {
			t.Errorf("expected field_errors in response, got %v", body)
		}
	})

	t.Run("access denied", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(models.TierFree, nil)
		body := `{"feature":"premium_analytics"}`
		w := doRequest(t, h, http.MethodPost, "/api/v1/ai/suggestions", body, user)

		if w.Code != http.StatusForbidden {
			t.Errorf("expected 403, got %d", w.Code)
		}
		env := decodeEnvelope(t, w)
		if upgrade, _ := env["upgrade_required"].(bool); !upgrade {
			t.Error("expected upgrade_required=true")
		}
	})

	t.Run("quota exhausted maps to 429", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(models.TierFree, nil)
		var last *httptest.ResponseRecorder
		for i := 0; i < 11; i++ {
			last = doRequest(t, h, http.MethodPost, "/api/v1/ai/suggestions", validBody, user)
		}
		if last.Code != http.StatusTooManyRequests {
			t.Errorf("expected 429 on request past the limit, got %d", last.Code)
		}
		env := decodeEnvelope(t, last)
		if env["error"] != "Daily AI request limit reached" {
			t.Errorf("unexpected error %v", env["error"])
		}
	})

	t.Run("engine failure maps to 503", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(models.TierFree, fmt.Errorf("model down"))
		w := doRequest(t, h, http.MethodPost, "/api/v1/ai/suggestions", validBody, user)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("expected 503, got %d", w.Code)
		}
	})

	t.Run("voice without audio maps to 400", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(models.TierPremium, nil)
		body := `{"feature":"voice_processing"}`
		w := doRequest(t, h, http.MethodPost, "/api/v1/ai/suggestions", body, user)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestGetUsage(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: uuid.New()}

	t.Run("reports quota", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(models.TierPremium, nil)
		w := doRequest(t, h, http.MethodGet, "/api/v1/ai/usage?feature=study_planning", "", user)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := decodeEnvelope(t, w)
		if body["tier"] != "premium" {
			t.Errorf("expected premium tier, got %v", body["tier"])
		}
		usage, _ := body["usage"].(map[string]any)
		if usage["feature_available"] != true {
			t.Errorf("expected study_planning available to premium, got %v", usage)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()
		h := newTestHandler(models.TierPremium, nil)
		w := doRequest(t, h, http.MethodGet, "/api/v1/ai/usage", "", nil)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", w.Code)
		}
	})
}
