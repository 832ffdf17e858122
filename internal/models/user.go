package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account. Users are created on first
// sight of a verified token from the identity provider and are never
// deleted by the application itself.
type User struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Email      string     `db:"email" json:"email"`
	ProviderID string     `db:"provider_id" json:"-"`
	Name       *string    `db:"name" json:"name,omitempty"`
	LastSeenAt *time.Time `db:"last_seen_at" json:"-"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}

// JWTClaims are the claims extracted from a verified bearer token
type JWTClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Iss   string `json:"iss"`
	Aud   string `json:"aud"`
	Exp   int64  `json:"exp"`
	Iat   int64  `json:"iat"`
}
