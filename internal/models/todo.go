package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Priority is the ordinal importance of a todo, 1 (low) through 4 (critical).
// It accepts both JSON numbers and numeric strings, since HTML form clients
// submit priorities as strings.
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4

	// DefaultPriority is applied when a create request omits the priority.
	DefaultPriority = PriorityMedium
)

// Valid reports whether p is within the accepted 1-4 range.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (p *Priority) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*p = Priority(int(v))
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("priority must be a number, got %q", v)
		}
		*p = Priority(n)
	default:
		return fmt.Errorf("priority must be a number")
	}
	return nil
}

// Todo represents a single task owned by a user
type Todo struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	UserID      uuid.UUID  `db:"user_id" json:"userId"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	IsCompleted bool       `db:"is_completed" json:"isCompleted"`
	Priority    Priority   `db:"priority" json:"priority"`
	DueDate     *time.Time `db:"due_date" json:"dueDate,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// TodoWithCategories is a todo together with the categories attached to it
type TodoWithCategories struct {
	Todo
	Categories []Category `json:"categories"`
}

// StatusFilter narrows a todo listing by completion state
type StatusFilter string

const (
	StatusAll        StatusFilter = "all"
	StatusCompleted  StatusFilter = "completed"
	StatusIncomplete StatusFilter = "incomplete"
)

// SortField selects the column a todo listing is ordered by
type SortField string

const (
	SortByDueDate   SortField = "dueDate"
	SortByPriority  SortField = "priority"
	SortByCreatedAt SortField = "createdAt"
	SortByTitle     SortField = "title"
)

// SortOrder selects the listing direction
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// TodoFilter describes the optional filters and sort for listing todos.
// The owning user is always applied on top of this by the repository.
type TodoFilter struct {
	Status     StatusFilter
	Priority   *Priority
	CategoryID *uuid.UUID
	Search     string
	SortBy     SortField
	SortOrder  SortOrder
}

// TodoUpdate is a partial update to a todo. Nil pointer fields are left
// untouched. ClearDueDate wins over DueDate and sets the column to NULL.
type TodoUpdate struct {
	Title        *string
	Description  *string
	IsCompleted  *bool
	Priority     *Priority
	DueDate      *time.Time
	ClearDueDate bool
}

// IsEmpty reports whether the update changes nothing.
func (u TodoUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.IsCompleted == nil &&
		u.Priority == nil && u.DueDate == nil && !u.ClearDueDate
}

// TodoStats summarizes a user's todos
type TodoStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}
