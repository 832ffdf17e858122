package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

// Category is a user-defined label that can be attached to many todos
type Category struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// CategoryUpdate is a partial update to a category.
type CategoryUpdate struct {
	Name  *string
	Color *string
}

// IsEmpty reports whether the update changes nothing.
func (u CategoryUpdate) IsEmpty() bool {
	return u.Name == nil && u.Color == nil
}
