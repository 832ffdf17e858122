package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/mtbell/tasklight/internal/models"
)

// TodoStore is the todo surface the handlers depend on. Keeping handlers on
// an interface lets tests swap in in-memory fakes.
type TodoStore interface {
	List(ctx context.Context, userID uuid.UUID, filter models.TodoFilter) ([]models.Todo, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Todo, error)
	GetWithCategories(ctx context.Context, id, userID uuid.UUID) (*models.TodoWithCategories, error)
	Create(ctx context.Context, todo *models.Todo) error
	Update(ctx context.Context, id, userID uuid.UUID, update models.TodoUpdate) (*models.Todo, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	ReplaceCategories(ctx context.Context, todoID, userID uuid.UUID, categoryIDs []uuid.UUID) error
	Stats(ctx context.Context, userID uuid.UUID) (*models.TodoStats, error)
}

// CategoryStore is the category surface the handlers depend on.
type CategoryStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Category, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, id, userID uuid.UUID, update models.CategoryUpdate) (*models.Category, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// UserStore is the user surface the auth middleware depends on.
type UserStore interface {
	GetOrCreate(ctx context.Context, claims *models.JWTClaims) (*models.User, error)
	TouchLastSeen(ctx context.Context, userID uuid.UUID) error
}

// Ensure concrete types implement the interfaces
var (
	_ TodoStore     = (*TodoRepository)(nil)
	_ CategoryStore = (*CategoryRepository)(nil)
	_ UserStore     = (*UserRepository)(nil)
)
