package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mtbell/tasklight/internal/database"
	"github.com/mtbell/tasklight/internal/middleware"
	"github.com/mtbell/tasklight/internal/models"
	"github.com/mtbell/tasklight/internal/validation"
	"go.uber.org/zap"
)

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categories database.CategoryStore
	logger     *zap.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categories database.CategoryStore, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categories: categories, logger: logger}
}

// RegisterRoutes registers category routes on the given router. The router
// should already carry the /categories prefix.
func (h *CategoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListCategories).Methods("GET")
	r.HandleFunc("", h.CreateCategory).Methods("POST")
	r.HandleFunc("/{id}", h.GetCategory).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateCategory).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteCategory).Methods("DELETE")
}

// CreateCategoryRequest represents a create category request
type CreateCategoryRequest struct {
	Name  string  `json:"name" validate:"required,min=1,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// UpdateCategoryRequest represents a partial category update
type UpdateCategoryRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=50"`
	Color *string `json:"color" validate:"omitempty,hexcolor"`
}

// ListCategories lists the authenticated user's categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	categories, err := h.categories.ListByUser(r.Context(), user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"categories": categories,
		"totalCount": len(categories),
	})
}

// GetCategory retrieves one category
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	id, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	category, err := h.categories.GetByID(r.Context(), id, user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"category": category})
}

// CreateCategory creates a new category
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	var req CreateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Name = validation.SanitizeText(req.Name)
	if err := validation.FromStruct(req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	color := models.DefaultCategoryColor
	if req.Color != nil {
		color = *req.Color
	}

	category := &models.Category{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   req.Name,
		Color:  color,
	}

	if err := h.categories.Create(r.Context(), category); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"category": category})
}

// UpdateCategory applies a partial update to a category
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	id, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	var req UpdateCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == nil && req.Color == nil {
		respondError(w, h.logger, validation.NewError("at least one field is required"))
		return
	}

	if req.Name != nil {
		sanitized := validation.SanitizeText(*req.Name)
		if sanitized == "" {
			respondError(w, h.logger, validation.NewError("validation failed", validation.FieldError{
				Field:   "name",
				Message: "must not be empty",
			}))
			return
		}
		req.Name = &sanitized
	}
	if err := validation.FromStruct(req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	category, err := h.categories.Update(r.Context(), id, user.ID, models.CategoryUpdate{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"category": category})
}

// DeleteCategory deletes a category; its todo associations cascade away
// while the todos themselves are untouched
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	id, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	if err := h.categories.Delete(r.Context(), id, user.ID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}
