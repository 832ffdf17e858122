package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mtbell/tasklight/internal/models"
)

// todoColumns are the columns selected for todo reads, aliased to the
// "t" table so joined listings stay unambiguous.
var todoColumns = []string{
	"t.id", "t.user_id", "t.title", "t.description",
	"t.is_completed", "t.priority", "t.due_date",
	"t.created_at", "t.updated_at",
}

const todoReturning = "RETURNING id, user_id, title, description, is_completed, priority, due_date, created_at, updated_at"

// TodoRepository handles todo database operations
type TodoRepository struct {
	db *DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

// List retrieves the user's todos matching the filter, ordered per the
// filter's sort (created_at descending when unset). A category filter is
// resolved in the same query via a join against todo_categories. Sorting by
// due date follows Postgres null ordering: ascending puts NULL due dates
// last, descending puts them first. An empty result is a nil error and an
// empty slice.
func (r *TodoRepository) List(ctx context.Context, userID uuid.UUID, filter models.TodoFilter) ([]models.Todo, error) {
	b := psql.Select(todoColumns...).
		From("todos t").
		Where(squirrel.Eq{"t.user_id": userID})

	switch filter.Status {
	case models.StatusCompleted:
		b = b.Where(squirrel.Eq{"t.is_completed": true})
	case models.StatusIncomplete:
		b = b.Where(squirrel.Eq{"t.is_completed": false})
	}

	if filter.Priority != nil {
		b = b.Where(squirrel.Eq{"t.priority": *filter.Priority})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"t.title": pattern},
			squirrel.ILike{"t.description": pattern},
		})
	}

	if filter.CategoryID != nil {
		b = b.Join("todo_categories tc ON tc.todo_id = t.id").
			Where(squirrel.Eq{"tc.category_id": *filter.CategoryID})
	}

	b = b.OrderBy(orderClause(filter.SortBy, filter.SortOrder))

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build todo list query: %w", err)
	}

	todos := []models.Todo{}
	if err := r.db.SelectContext(ctx, &todos, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}

	return todos, nil
}

// orderClause maps the API sort enums onto an ORDER BY expression.
func orderClause(field models.SortField, order models.SortOrder) string {
	column := "t.created_at"
	switch field {
	case models.SortByDueDate:
		column = "t.due_date"
	case models.SortByPriority:
		column = "t.priority"
	case models.SortByTitle:
		column = "t.title"
	case models.SortByCreatedAt:
		column = "t.created_at"
	}

	// newest first unless ascending was asked for
	direction := "DESC"
	if order == models.SortAsc {
		direction = "ASC"
	}

	return column + " " + direction
}

// GetByID retrieves a todo scoped to its owner. A todo owned by another
// user yields ErrNotFound, indistinguishable from a missing row.
func (r *TodoRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Todo, error) {
	todo := &models.Todo{}
	query := `
		SELECT id, user_id, title, description, is_completed, priority, due_date, created_at, updated_at
		FROM todos
		WHERE id = $1 AND user_id = $2
	`

	err := r.db.GetContext(ctx, todo, query, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// GetWithCategories retrieves a todo together with its attached categories.
func (r *TodoRepository) GetWithCategories(ctx context.Context, id, userID uuid.UUID) (*models.TodoWithCategories, error) {
	todo, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	categories := []models.Category{}
	query := `
		SELECT c.id, c.user_id, c.name, c.color, c.created_at
		FROM categories c
		JOIN todo_categories tc ON tc.category_id = c.id
		WHERE tc.todo_id = $1
		ORDER BY c.name
	`
	if err := r.db.SelectContext(ctx, &categories, query, id); err != nil {
		return nil, fmt.Errorf("failed to get todo categories: %w", err)
	}

	return &models.TodoWithCategories{Todo: *todo, Categories: categories}, nil
}

// Create inserts a new todo. The caller supplies the id; generated
// timestamps are scanned back onto the record.
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (id, user_id, title, description, is_completed, priority, due_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		todo.ID,
		todo.UserID,
		todo.Title,
		todo.Description,
		todo.IsCompleted,
		todo.Priority,
		todo.DueDate,
		now,
		now,
	).Scan(&todo.CreatedAt, &todo.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create todo: %w", translateError(err))
	}

	return nil
}

// Update applies a partial update to the todo matching both id and owner,
// always refreshing updated_at. Zero matched rows yield ErrNotFound,
// covering non-existence and wrong ownership alike.
func (r *TodoRepository) Update(ctx context.Context, id, userID uuid.UUID, update models.TodoUpdate) (*models.Todo, error) {
	b := psql.Update("todos").Set("updated_at", time.Now())

	if update.Title != nil {
		b = b.Set("title", *update.Title)
	}
	if update.Description != nil {
		b = b.Set("description", *update.Description)
	}
	if update.IsCompleted != nil {
		b = b.Set("is_completed", *update.IsCompleted)
	}
	if update.Priority != nil {
		b = b.Set("priority", *update.Priority)
	}
	if update.ClearDueDate {
		b = b.Set("due_date", nil)
	} else if update.DueDate != nil {
		b = b.Set("due_date", *update.DueDate)
	}

	query, args, err := b.
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		Suffix(todoReturning).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build todo update query: %w", err)
	}

	todo := &models.Todo{}
	err = r.db.GetContext(ctx, todo, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", translateError(err))
	}

	return todo, nil
}

// Delete removes the todo matching both id and owner. Association rows go
// away through the foreign key cascade, not application code.
func (r *TodoRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("todo %s: %w", id, ErrNotFound)
	}

	return nil
}

// ReplaceCategories swaps the todo's category set for the given ids inside
// one transaction: verify the todo's owner, verify every category belongs
// to the same user, delete the old links, insert the new ones. The insert
// uses ON CONFLICT DO NOTHING so replaying the same set is idempotent, and
// the transaction closes the window where a reader could observe the todo
// with no categories mid-swap.
func (r *TodoRepository) ReplaceCategories(ctx context.Context, todoID, userID uuid.UUID, categoryIDs []uuid.UUID) error {
	return r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		var exists int
		err := tx.GetContext(ctx, &exists, `SELECT 1 FROM todos WHERE id = $1 AND user_id = $2`, todoID, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("todo %s: %w", todoID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to verify todo ownership: %w", err)
		}

		if len(categoryIDs) > 0 {
			if err := verifyCategoryOwnership(ctx, tx, userID, categoryIDs); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM todo_categories WHERE todo_id = $1`, todoID); err != nil {
			return fmt.Errorf("failed to clear todo categories: %w", err)
		}

		if len(categoryIDs) == 0 {
			return nil
		}

		ib := psql.Insert("todo_categories").Columns("todo_id", "category_id")
		for _, cid := range categoryIDs {
			ib = ib.Values(todoID, cid)
		}
		query, args, err := ib.Suffix("ON CONFLICT DO NOTHING").ToSql()
		if err != nil {
			return fmt.Errorf("failed to build association insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert todo categories: %w", err)
		}

		return nil
	})
}

// verifyCategoryOwnership confirms every id belongs to the user, returning a
// CategoryOwnershipError naming the offenders otherwise.
func verifyCategoryOwnership(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, categoryIDs []uuid.UUID) error {
	query, args, err := psql.Select("id").
		From("categories").
		Where(squirrel.Eq{"user_id": userID, "id": categoryIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build category ownership query: %w", err)
	}

	found := []uuid.UUID{}
	if err := tx.SelectContext(ctx, &found, query, args...); err != nil {
		return fmt.Errorf("failed to verify category ownership: %w", err)
	}

	owned := make(map[uuid.UUID]bool, len(found))
	for _, id := range found {
		owned[id] = true
	}

	var missing []uuid.UUID
	for _, id := range categoryIDs {
		if !owned[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &CategoryOwnershipError{IDs: missing}
	}

	return nil
}

// Stats loads the user's todos and counts them in memory. Overdue means a
// due date in the past on a todo that is not completed.
func (r *TodoRepository) Stats(ctx context.Context, userID uuid.UUID) (*models.TodoStats, error) {
	todos, err := r.List(ctx, userID, models.TodoFilter{})
	if err != nil {
		return nil, err
	}

	return countStats(todos, time.Now()), nil
}

func countStats(todos []models.Todo, now time.Time) *models.TodoStats {
	stats := &models.TodoStats{Total: len(todos)}
	for _, t := range todos {
		if t.IsCompleted {
			stats.Completed++
			continue
		}
		stats.Pending++
		if t.DueDate != nil && t.DueDate.Before(now) {
			stats.Overdue++
		}
	}
	return stats
}
