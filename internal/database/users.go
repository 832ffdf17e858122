package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mtbell/tasklight/internal/models"
)

// UserRepository handles user database operations
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByProviderID retrieves a user by the identity provider's subject.
func (r *UserRepository) GetByProviderID(ctx context.Context, providerID string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, provider_id, name, last_seen_at, created_at, updated_at
		FROM users
		WHERE provider_id = $1
	`

	err := r.db.GetContext(ctx, user, query, providerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, provider_id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		user.ID,
		user.Email,
		user.ProviderID,
		user.Name,
		now,
		now,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", translateError(err))
	}

	return nil
}

// GetOrCreate resolves the user for a verified token, creating the account
// on first sight of the provider subject.
func (r *UserRepository) GetOrCreate(ctx context.Context, claims *models.JWTClaims) (*models.User, error) {
	user, err := r.GetByProviderID(ctx, claims.Sub)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	user = &models.User{
		ID:         uuid.New(),
		Email:      claims.Email,
		ProviderID: claims.Sub,
	}
	if claims.Name != "" {
		name := claims.Name
		user.Name = &name
	}

	if err := r.Create(ctx, user); err != nil {
		// a concurrent request may have created the same user; re-read
		if errors.Is(err, ErrDuplicate) {
			return r.GetByProviderID(ctx, claims.Sub)
		}
		return nil, err
	}

	return user, nil
}

// TouchLastSeen records that the user made an authenticated request.
func (r *UserRepository) TouchLastSeen(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_seen_at = $2 WHERE id = $1`, userID, time.Now()); err != nil {
		return fmt.Errorf("failed to update last seen: %w", err)
	}
	return nil
}
