package domain

import (
	"context"
	"time"
)

// User is a registered member account.
type User struct {
	ID           int64
	Email        string
	DisplayName  string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	// GetByEmail resolves a user by exact email match. A second matching
	// row means the uniqueness constraint was violated out-of-band and
	// is reported as ErrEmailConflict, never resolved by picking one.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
