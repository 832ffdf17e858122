package database

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mtbell/tasklight/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var categoryRowColumns = []string{"id", "user_id", "name", "color", "created_at"}

func newMockCategoryRepo(t *testing.T) (*CategoryRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewCategoryRepository(NewFromHandle(sqlx.NewDb(db, "postgres"))), mock
}

func TestCategoryRepository_ListByUser(t *testing.T) {
	repo, mock := newMockCategoryRepo(t)
	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`FROM categories\s+WHERE user_id = \$1\s+ORDER BY name`).
		WithArgs(userID).
		WillReturnRows(sqlmock.NewRows(categoryRowColumns).
			AddRow(uuid.New().String(), userID.String(), "errands", "#3B82F6", now).
			AddRow(uuid.New().String(), userID.String(), "work", "#EF4444", now))

	categories, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "errands", categories[0].Name)
	assert.Equal(t, "work", categories[1].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newMockCategoryRepo(t)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(`FROM categories\s+WHERE id = \$1 AND user_id = \$2`).
		WithArgs(id, userID).
		WillReturnRows(sqlmock.NewRows(categoryRowColumns))

	_, err := repo.GetByID(context.Background(), id, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Create(t *testing.T) {
	repo, mock := newMockCategoryRepo(t)
	now := time.Now()
	category := &models.Category{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Name:   "errands",
		Color:  models.DefaultCategoryColor,
	}

	mock.ExpectQuery(`INSERT INTO categories`).
		WithArgs(category.ID, category.UserID, category.Name, category.Color, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	require.NoError(t, repo.Create(context.Background(), category))
	assert.Equal(t, now, category.CreatedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Create_DuplicateName(t *testing.T) {
	repo, mock := newMockCategoryRepo(t)
	category := &models.Category{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Name:   "errands",
		Color:  models.DefaultCategoryColor,
	}

	mock.ExpectQuery(`INSERT INTO categories`).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: "idx_categories_user_name"})

	err := repo.Create(context.Background(), category)
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Update(t *testing.T) {
	repo, mock := newMockCategoryRepo(t)
	id, userID := uuid.New(), uuid.New()
	name := "chores"

	mock.ExpectQuery(`UPDATE categories SET name = \$1 WHERE id = \$2 AND user_id = \$3 RETURNING`).
		WithArgs(name, id, userID).
		WillReturnRows(sqlmock.NewRows(categoryRowColumns).
			AddRow(id.String(), userID.String(), name, "#3B82F6", time.Now()))

	category, err := repo.Update(context.Background(), id, userID, models.CategoryUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, category.Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Update_NotFound(t *testing.T) {
	repo, mock := newMockCategoryRepo(t)
	id, userID := uuid.New(), uuid.New()
	color := "#000000"

	mock.ExpectQuery(`UPDATE categories`).
		WithArgs(color, id, userID).
		WillReturnRows(sqlmock.NewRows(categoryRowColumns))

	_, err := repo.Update(context.Background(), id, userID, models.CategoryUpdate{Color: &color})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryRepository_Delete_NotFound(t *testing.T) {
	repo, mock := newMockCategoryRepo(t)
	id, userID := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM categories WHERE id = \$1 AND user_id = \$2`).
		WithArgs(id, userID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), id, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}
