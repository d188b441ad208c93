package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(context.Context) error {
	return s.err
}

type stubQueueChecker struct {
	err error
}

func (s *stubQueueChecker) HealthCheck(context.Context) error {
	return s.err
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		mode           string
		cache          Pinger
		queue          QueueChecker
		expectedStatus int
		expectedHealth string
		expectedChecks map[string]string
	}{
		{
			name:           "basic mode always healthy",
			mode:           "",
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
		},
		{
			name:           "basic mode ignores failing backends",
			mode:           "",
			cache:          &stubPinger{err: errors.New("redis down")},
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
		},
		{
			name:           "extended mode all healthy",
			mode:           "extended",
			cache:          &stubPinger{},
			queue:          &stubQueueChecker{},
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
			expectedChecks: map[string]string{"cache": "healthy", "queue": "healthy"},
		},
		{
			name:           "extended mode cache failure",
			mode:           "extended",
			cache:          &stubPinger{err: errors.New("redis down")},
			queue:          &stubQueueChecker{},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "unhealthy",
			expectedChecks: map[string]string{"cache": "unhealthy: redis down", "queue": "healthy"},
		},
		{
			name:           "extended mode queue failure",
			mode:           "extended",
			queue:          &stubQueueChecker{err: errors.New("connection closed")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "unhealthy",
			expectedChecks: map[string]string{"queue": "unhealthy: connection closed"},
		},
		{
			name:           "extended mode skips unconfigured backends",
			mode:           "extended",
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
			expectedChecks: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewHealthChecker(nil, tt.cache, tt.queue)

			url := "/healthz"
			if tt.mode != "" {
				url += "?mode=" + tt.mode
			}
			req := httptest.NewRequest(http.MethodGet, url, nil)
			w := httptest.NewRecorder()

			h.HealthCheck(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.expectedHealth {
				t.Errorf("expected status %q, got %q", tt.expectedHealth, resp.Status)
			}
			if resp.Timestamp == "" {
				t.Error("expected timestamp to be set")
			}
			for check, want := range tt.expectedChecks {
				if got := resp.Checks[check]; got != want {
					t.Errorf("check %s: expected %q, got %q", check, want, got)
				}
			}
		})
	}
}
