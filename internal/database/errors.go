package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Sentinel errors returned by the repositories. Handlers classify failures
// with errors.Is/errors.As against these; no message text is ever inspected.
var (
	// ErrNotFound covers both a genuinely absent row and a row owned by a
	// different user. Callers cannot tell the two apart.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert or update violates a unique
	// constraint (e.g. a category name already used by the same user).
	ErrDuplicate = errors.New("duplicate")
)

// CategoryOwnershipError reports category ids that could not be attached to
// a todo because they do not exist or belong to another user. It unwraps to
// ErrNotFound so ownership probes are indistinguishable from missing rows.
type CategoryOwnershipError struct {
	IDs []uuid.UUID
}

func (e *CategoryOwnershipError) Error() string {
	ids := make([]string, len(e.IDs))
	for i, id := range e.IDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("categories not found or access denied: %s", strings.Join(ids, ", "))
}

func (e *CategoryOwnershipError) Unwrap() error {
	return ErrNotFound
}

// pqUniqueViolation is the Postgres error code for unique constraint violations.
const pqUniqueViolation = "23505"

// translateError maps driver-level errors onto the sentinel taxonomy.
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	}
	return err
}
