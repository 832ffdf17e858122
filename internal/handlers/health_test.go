package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakePinger struct {
	err error
}

func (f fakePinger) Ping(_ context.Context) error {
	return f.err
}

func TestHealthCheck_Basic(t *testing.T) {
	t.Parallel()

	// Basic mode reports healthy without touching dependencies.
	checker := NewHealthChecker(map[string]Pinger{
		"database": fakePinger{err: errors.New("down")},
	})

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	checker.HealthCheck(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Status != "healthy" {
		t.Errorf("expected healthy, got %q", resp.Status)
	}
	if resp.Checks != nil {
		t.Errorf("expected no dependency checks in basic mode, got %v", resp.Checks)
	}
}

func TestHealthCheck_Extended(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		checks         map[string]Pinger
		expectedStatus int
		expected       string
	}{
		{
			name: "all dependencies healthy",
			checks: map[string]Pinger{
				"database": fakePinger{},
				"redis":    fakePinger{},
			},
			expectedStatus: http.StatusOK,
			expected:       "healthy",
		},
		{
			name: "one dependency down",
			checks: map[string]Pinger{
				"database": fakePinger{},
				"redis":    fakePinger{err: errors.New("connection refused")},
			},
			expectedStatus: http.StatusServiceUnavailable,
			expected:       "unhealthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			checker := NewHealthChecker(tt.checks)

			req := httptest.NewRequest("GET", "/healthz?mode=extended", nil)
			w := httptest.NewRecorder()
			checker.HealthCheck(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected %d, got %d", tt.expectedStatus, w.Code)
			}

			var resp HealthResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if resp.Status != tt.expected {
				t.Errorf("expected status %q, got %q", tt.expected, resp.Status)
			}
			if len(resp.Checks) != len(tt.checks) {
				t.Errorf("expected %d checks, got %v", len(tt.checks), resp.Checks)
			}
		})
	}
}
