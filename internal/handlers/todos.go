package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/mtbell/tasklight/internal/database"
	"github.com/mtbell/tasklight/internal/middleware"
	"github.com/mtbell/tasklight/internal/models"
	"github.com/mtbell/tasklight/internal/validation"
	"go.uber.org/zap"
)

// TodoHandler handles todo-related requests
type TodoHandler struct {
	todos  database.TodoStore
	logger *zap.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(todos database.TodoStore, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{todos: todos, logger: logger}
}

// RegisterRoutes registers todo routes on the given router. The router
// should already carry the /todos prefix.
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTodos).Methods("GET")
	r.HandleFunc("", h.CreateTodo).Methods("POST")
	r.HandleFunc("/stats", h.TodoStats).Methods("GET")
	r.HandleFunc("/{id}", h.GetTodo).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTodo).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTodo).Methods("DELETE")
	r.HandleFunc("/{id}/categories", h.ReplaceCategories).Methods("PUT")
}

// CreateTodoRequest represents a create todo request
type CreateTodoRequest struct {
	Title       string           `json:"title" validate:"required,min=1,max=200"`
	Description *string          `json:"description"`
	Priority    *models.Priority `json:"priority" validate:"omitempty,min=1,max=4"`
	DueDate     *time.Time       `json:"dueDate"`
	CategoryIDs []uuid.UUID      `json:"categoryIds"`
}

// UpdateTodoRequest represents a partial todo update. DueDate stays raw so
// an explicit null (clear the date) can be told apart from an absent field.
type UpdateTodoRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Priority    *models.Priority `json:"priority" validate:"omitempty,min=1,max=4"`
	IsCompleted *bool            `json:"isCompleted"`
	DueDate     json.RawMessage  `json:"dueDate"`
	CategoryIDs *[]uuid.UUID     `json:"categoryIds"`
}

// ReplaceCategoriesRequest carries the desired category set for a todo.
type ReplaceCategoriesRequest struct {
	CategoryIDs *[]uuid.UUID `json:"categoryIds"`
}

// ListTodos lists the authenticated user's todos with filters and sort
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	q := r.URL.Query()

	status, err := validation.ParseStatus(q.Get("status"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	priority, err := validation.ParsePriority(q.Get("priority"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	sortBy, err := validation.ParseSortField(q.Get("sortBy"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	sortOrder, err := validation.ParseSortOrder(q.Get("sortOrder"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	filter := models.TodoFilter{
		Status:    status,
		Priority:  priority,
		Search:    validation.SanitizeText(q.Get("search")),
		SortBy:    sortBy,
		SortOrder: sortOrder,
	}

	if c := q.Get("category"); c != "" {
		categoryID, err := uuid.Parse(c)
		if err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid category ID", nil)
			return
		}
		filter.CategoryID = &categoryID
	}

	todos, err := h.todos.List(r.Context(), user.ID, filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"todos":      todos,
		"totalCount": len(todos),
	})
}

// CreateTodo creates a new todo, optionally attaching categories
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	var req CreateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	if err := validation.FromStruct(req); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := validation.CheckDueDateForCreate(req.DueDate, time.Now()); err != nil {
		respondError(w, h.logger, err)
		return
	}

	priority := models.DefaultPriority
	if req.Priority != nil {
		priority = *req.Priority
	}

	ctx := r.Context()
	todo := &models.Todo{
		ID:          uuid.New(),
		UserID:      user.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     req.DueDate,
	}

	if err := h.todos.Create(ctx, todo); err != nil {
		respondError(w, h.logger, err)
		return
	}

	if len(req.CategoryIDs) > 0 {
		if err := h.todos.ReplaceCategories(ctx, todo.ID, user.ID, req.CategoryIDs); err != nil {
			respondError(w, h.logger, err)
			return
		}
	}

	withCategories, err := h.todos.GetWithCategories(ctx, todo.ID, user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"todo": withCategories})
}

// GetTodo retrieves one todo with its categories
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	id, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	todo, err := h.todos.GetWithCategories(r.Context(), id, user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"todo": todo})
}

// UpdateTodo applies a partial update to a todo
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	id, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	var req UpdateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if req.Title == nil && req.Description == nil && req.Priority == nil &&
		req.IsCompleted == nil && req.DueDate == nil && req.CategoryIDs == nil {
		respondError(w, h.logger, validation.NewError("at least one field is required"))
		return
	}

	if req.Title != nil {
		sanitized := validation.SanitizeText(*req.Title)
		if sanitized == "" {
			respondError(w, h.logger, validation.NewError("validation failed", validation.FieldError{
				Field:   "title",
				Message: "must not be empty",
			}))
			return
		}
		req.Title = &sanitized
	}
	if err := validation.FromStruct(req); err != nil {
		respondError(w, h.logger, err)
		return
	}

	ctx := r.Context()

	// The due-date rule depends on the todo's resulting completion state,
	// so the current row is needed before validating.
	existing, err := h.todos.GetByID(ctx, id, user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	resultingCompleted := existing.IsCompleted
	if req.IsCompleted != nil {
		resultingCompleted = *req.IsCompleted
	}

	update := models.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		IsCompleted: req.IsCompleted,
	}

	if req.DueDate != nil {
		if bytes.Equal(bytes.TrimSpace(req.DueDate), []byte("null")) {
			update.ClearDueDate = true
		} else {
			var due time.Time
			if err := json.Unmarshal(req.DueDate, &due); err != nil {
				respondError(w, h.logger, validation.NewError("validation failed", validation.FieldError{
					Field:   "dueDate",
					Message: "must be an RFC 3339 timestamp or null",
				}))
				return
			}
			if err := validation.CheckDueDateForUpdate(&due, resultingCompleted, time.Now()); err != nil {
				respondError(w, h.logger, err)
				return
			}
			update.DueDate = &due
		}
	}

	if update.IsEmpty() && req.CategoryIDs == nil {
		respondError(w, h.logger, validation.NewError("at least one field is required"))
		return
	}

	if !update.IsEmpty() {
		if _, err := h.todos.Update(ctx, id, user.ID, update); err != nil {
			respondError(w, h.logger, err)
			return
		}
	}

	if req.CategoryIDs != nil {
		if err := h.todos.ReplaceCategories(ctx, id, user.ID, *req.CategoryIDs); err != nil {
			respondError(w, h.logger, err)
			return
		}
	}

	todo, err := h.todos.GetWithCategories(ctx, id, user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"todo": todo})
}

// ReplaceCategories swaps a todo's category set
func (h *TodoHandler) ReplaceCategories(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	id, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	var req ReplaceCategoriesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CategoryIDs == nil {
		respondError(w, h.logger, validation.NewError("validation failed", validation.FieldError{
			Field:   "categoryIds",
			Message: "is required (use an empty list to detach all categories)",
		}))
		return
	}

	ctx := r.Context()
	if err := h.todos.ReplaceCategories(ctx, id, user.ID, *req.CategoryIDs); err != nil {
		respondError(w, h.logger, err)
		return
	}

	todo, err := h.todos.GetWithCategories(ctx, id, user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"todo": todo})
}

// DeleteTodo deletes a todo; its associations cascade away in the database
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	id, ok := parseIDVar(w, r)
	if !ok {
		return
	}

	if err := h.todos.Delete(r.Context(), id, user.ID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, nil)
}

// TodoStats reports total/completed/pending/overdue counts
func (h *TodoHandler) TodoStats(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondUnauthorized(w)
		return
	}

	stats, err := h.todos.Stats(r.Context(), user.ID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"stats": stats})
}

// parseIDVar pulls the {id} route variable, answering 400 on garbage.
func parseIDVar(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid ID", nil)
		return uuid.Nil, false
	}
	return id, true
}
