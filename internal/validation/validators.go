package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/mtbell/tasklight/internal/models"
)

// Validate is a shared validator instance
var Validate = validator.New()

// FieldError is a single per-field validation failure, surfaced to clients
// in the 400 envelope's details list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a validation failure carrying per-field details. Handlers map it
// to a 400 without inspecting message text.
type Error struct {
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a validation error with optional field details.
func NewError(message string, fields ...FieldError) *Error {
	return &Error{Message: message, Fields: fields}
}

// FromStruct runs the shared validator over a request struct and converts
// any failures into an *Error with per-field details.
func FromStruct(req any) error {
	err := Validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewError("validation failed")
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed on the '%s' rule", fe.Tag()),
		})
	}
	return NewError("validation failed", fields...)
}

// SanitizeText trims whitespace and strips control characters other than
// newline and tab.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// CheckDueDateForCreate rejects due dates strictly before now. Todos with
// no due date are always accepted.
func CheckDueDateForCreate(dueDate *time.Time, now time.Time) error {
	if dueDate != nil && dueDate.Before(now) {
		return NewError("validation failed", FieldError{
			Field:   "dueDate",
			Message: "due date must not be in the past",
		})
	}
	return nil
}

// CheckDueDateForUpdate rejects past due dates unless the todo's resulting
// completion state is completed; a completed todo may carry any due date.
func CheckDueDateForUpdate(dueDate *time.Time, resultingCompleted bool, now time.Time) error {
	if resultingCompleted {
		return nil
	}
	if dueDate != nil && dueDate.Before(now) {
		return NewError("validation failed", FieldError{
			Field:   "dueDate",
			Message: "due date must not be in the past for an incomplete todo",
		})
	}
	return nil
}

// ParseStatus parses the status query parameter. Empty defaults to all.
func ParseStatus(value string) (models.StatusFilter, error) {
	switch models.StatusFilter(value) {
	case "":
		return models.StatusAll, nil
	case models.StatusAll, models.StatusCompleted, models.StatusIncomplete:
		return models.StatusFilter(value), nil
	default:
		return "", NewError("validation failed", FieldError{
			Field:   "status",
			Message: fmt.Sprintf("invalid status: %s (must be 'completed', 'incomplete', or 'all')", value),
		})
	}
}

// ParseSortField parses the sortBy query parameter. Empty defaults to createdAt.
func ParseSortField(value string) (models.SortField, error) {
	switch models.SortField(value) {
	case "":
		return models.SortByCreatedAt, nil
	case models.SortByDueDate, models.SortByPriority, models.SortByCreatedAt, models.SortByTitle:
		return models.SortField(value), nil
	default:
		return "", NewError("validation failed", FieldError{
			Field:   "sortBy",
			Message: fmt.Sprintf("invalid sortBy: %s (must be 'dueDate', 'priority', 'createdAt', or 'title')", value),
		})
	}
}

// ParseSortOrder parses the sortOrder query parameter. Empty defaults to desc.
func ParseSortOrder(value string) (models.SortOrder, error) {
	switch models.SortOrder(value) {
	case "":
		return models.SortDesc, nil
	case models.SortAsc, models.SortDesc:
		return models.SortOrder(value), nil
	default:
		return "", NewError("validation failed", FieldError{
			Field:   "sortOrder",
			Message: fmt.Sprintf("invalid sortOrder: %s (must be 'asc' or 'desc')", value),
		})
	}
}

// ParsePriority coerces the priority query parameter to an integer in the
// accepted range. Empty yields nil (no filter).
func ParsePriority(value string) (*models.Priority, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || !models.Priority(n).Valid() {
		return nil, NewError("validation failed", FieldError{
			Field:   "priority",
			Message: fmt.Sprintf("invalid priority: %s (must be an integer 1-4)", value),
		})
	}
	p := models.Priority(n)
	return &p, nil
}
