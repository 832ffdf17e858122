package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/mtbell/tasklight/internal/models"
)

// CategoryRepository handles category database operations
type CategoryRepository struct {
	db *DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListByUser retrieves the user's categories ordered by name.
func (r *CategoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	categories := []models.Category{}
	query := `
		SELECT id, user_id, name, color, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name
	`
	if err := r.db.SelectContext(ctx, &categories, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	return categories, nil
}

// GetByID retrieves a category scoped to its owner.
func (r *CategoryRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT id, user_id, name, color, created_at
		FROM categories
		WHERE id = $1 AND user_id = $2
	`

	err := r.db.GetContext(ctx, category, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return category, nil
}

// Create inserts a new category. A name already used by the same user
// surfaces as ErrDuplicate via the unique index.
func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (id, user_id, name, color, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		category.ID,
		category.UserID,
		category.Name,
		category.Color,
		time.Now(),
	).Scan(&category.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create category: %w", translateError(err))
	}

	return nil
}

// Update applies a partial update to the category matching both id and owner.
func (r *CategoryRepository) Update(ctx context.Context, id, userID uuid.UUID, update models.CategoryUpdate) (*models.Category, error) {
	b := psql.Update("categories")
	if update.Name != nil {
		b = b.Set("name", *update.Name)
	}
	if update.Color != nil {
		b = b.Set("color", *update.Color)
	}

	query, args, err := b.
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix("RETURNING id, user_id, name, color, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build category update query: %w", err)
	}

	category := &models.Category{}
	err = r.db.GetContext(ctx, category, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", translateError(err))
	}

	return category, nil
}

// Delete removes the category matching both id and owner. Its association
// rows cascade away; the todos they pointed at are untouched.
func (r *CategoryRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s: %w", id, ErrNotFound)
	}

	return nil
}
