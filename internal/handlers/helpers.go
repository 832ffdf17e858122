package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mtbell/tasklight/internal/database"
	"github.com/mtbell/tasklight/internal/validation"
	"go.uber.org/zap"
)

// respondJSON sends a success envelope
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   true,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondJSONError sends an error envelope carrying the numeric status code
// and optional per-field validation details.
func respondJSONError(w http.ResponseWriter, status int, errorType, message string, details []validation.FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success":   false,
		"error":     errorType,
		"message":   message,
		"code":      status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if len(details) > 0 {
		response["details"] = details
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// respondError classifies a failure from the query or validation layer by
// its tagged type and maps it to a status. Anything unrecognized is logged
// server-side and reported as a generic 500; raw internals never reach the
// client.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", verr.Message, verr.Fields)
	case errors.Is(err, database.ErrNotFound):
		respondJSONError(w, http.StatusNotFound, "Not Found", err.Error(), nil)
	case errors.Is(err, database.ErrDuplicate):
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "a record with that name already exists", nil)
	default:
		logger.Error("request_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", nil)
	}
}

// respondUnauthorized is the shared 401 for requests with no resolved user.
func respondUnauthorized(w http.ResponseWriter) {
	respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context", nil)
}

// decodeJSON decodes a request body, translating size-limit hits into 413s.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", "Request body exceeds the maximum size", nil)
			return false
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body", nil)
		return false
	}
	return true
}
