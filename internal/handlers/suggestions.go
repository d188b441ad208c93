package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stuapp/suggest-api/internal/request"
	"github.com/stuapp/suggest-api/internal/suggest"
)

// SuggestionsHandler exposes the suggestion pipeline over HTTP
type SuggestionsHandler struct {
	router *suggest.Router
}

// NewSuggestionsHandler creates a new suggestions handler
func NewSuggestionsHandler(router *suggest.Router) *SuggestionsHandler {
	return &SuggestionsHandler{router: router}
}

// RegisterRoutes registers suggestion routes on the given router.
// The router should already have the /api/v1/ai prefix.
func (h *SuggestionsHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/suggestions", h.PostSuggestions).Methods("POST")
	r.HandleFunc("/usage", h.GetUsage).Methods("GET")
}

// PostSuggestions runs one request through the pipeline. The pipeline always
// produces an envelope; this handler only maps it onto a status code.
func (h *SuggestionsHandler) PostSuggestions(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Failed to read request body")
		return
	}

	env := h.router.Route(r.Context(), callerFrom(r), body)
	writeEnvelope(w, env)
}

// GetUsage reports the caller's tier and current quota without dispatching.
// An optional ?feature= query reports availability for that feature.
func (h *SuggestionsHandler) GetUsage(w http.ResponseWriter, r *http.Request) {
	env := h.router.Usage(r.Context(), callerFrom(r), r.URL.Query().Get("feature"))
	writeEnvelope(w, env)
}

func callerFrom(r *http.Request) *suggest.Caller {
	user := request.UserFromContext(r)
	if user == nil {
		return nil
	}
	return &suggest.Caller{ID: user.ID, ClientIP: request.ClientIP(r)}
}

func writeEnvelope(w http.ResponseWriter, env *suggest.Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusFor(env))
	_ = json.NewEncoder(w).Encode(env)
}

// statusFor maps a pipeline outcome to an HTTP status code.
func statusFor(env *suggest.Envelope) int {
	if env.Success {
		return http.StatusOK
	}
	switch env.Kind {
	case suggest.FailureUnauthenticated:
		return http.StatusUnauthorized
	case suggest.FailureValidation, suggest.FailureMissingInput:
		return http.StatusBadRequest
	case suggest.FailureAccessDenied:
		return http.StatusForbidden
	case suggest.FailureQuotaExceeded:
		return http.StatusTooManyRequests
	case suggest.FailureHandlerUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
