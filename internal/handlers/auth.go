package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/mtbell/tasklight/internal/middleware"
	"github.com/mtbell/tasklight/internal/services/oidc"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	oidcClient *oidc.Client
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(oidcClient *oidc.Client) *AuthHandler {
	return &AuthHandler{oidcClient: oidcClient}
}

// RegisterPublicRoutes registers routes that work without a session.
func (h *AuthHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.GetLogin).Methods("GET")
}

// RegisterProtectedRoutes registers routes requiring authentication.
func (h *AuthHandler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/me", h.GetMe).Methods("GET")
}

// GetLogin returns the provider authorization URL the frontend should
// redirect to.
func (h *AuthHandler) GetLogin(w http.ResponseWriter, r *http.Request) {
	state := make([]byte, 16)
	if _, err := rand.Read(state); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"authUrl": h.oidcClient.LoginURL(hex.EncodeToString(state)),
	})
}

// GetMe returns the authenticated user
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}
