package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/mtbell/tasklight/internal/database"
	"github.com/mtbell/tasklight/internal/validation"
	"go.uber.org/zap"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSON(w, http.StatusOK, map[string]string{"message": "hello"})

	resp := w.Result()
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got %q", ct)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if success, ok := body["success"].(bool); !ok || !success {
		t.Error("Expected success to be true")
	}
	if _, ok := body["timestamp"].(string); !ok {
		t.Error("Expected timestamp to be present")
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["message"] != "hello" {
		t.Errorf("Expected data.message 'hello', got %v", body["data"])
	}
}

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	details := []validation.FieldError{{Field: "title", Message: "is required"}}

	w := httptest.NewRecorder()
	respondJSONError(w, http.StatusBadRequest, "Bad Request", "validation failed", details)

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if body["success"] != false {
		t.Error("Expected success to be false")
	}
	if body["code"] != float64(http.StatusBadRequest) {
		t.Errorf("Expected code 400, got %v", body["code"])
	}
	if body["message"] != "validation failed" {
		t.Errorf("Expected message, got %v", body["message"])
	}

	detailList, ok := body["details"].([]any)
	if !ok || len(detailList) != 1 {
		t.Fatalf("Expected one detail entry, got %v", body["details"])
	}
	entry := detailList[0].(map[string]any)
	if entry["field"] != "title" {
		t.Errorf("Expected detail field 'title', got %v", entry["field"])
	}
}

func TestRespondError_Classification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "validation error maps to 400",
			err:            validation.NewError("validation failed", validation.FieldError{Field: "title", Message: "required"}),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "wrapped not found maps to 404",
			err:            fmt.Errorf("todo %s: %w", uuid.New(), database.ErrNotFound),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "category ownership failure maps to 404",
			err:            &database.CategoryOwnershipError{IDs: []uuid.UUID{uuid.New()}},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "duplicate maps to 400",
			err:            fmt.Errorf("create: %w", database.ErrDuplicate),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown errors map to a generic 500",
			err:            errors.New("pq: connection reset by peer"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			respondError(w, zap.NewNop(), tt.err)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if tt.expectedStatus == http.StatusInternalServerError {
				if msg := body["message"]; msg != "An unexpected error occurred" {
					t.Errorf("internal detail must not leak, got %v", msg)
				}
			}
		})
	}
}
