package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mkerrall/waypost/internal/domain"
)

// UserRepository implements domain.UserRepository using SQLite.
type UserRepository struct {
	db *sql.DB
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, display_name, password_hash, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		user.Email, user.DisplayName, user.PasswordHash, user.Active, now, now,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, active, created_at, updated_at
		 FROM users WHERE id = ?`, id,
	).Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.Active, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query user by id: %w", err)
	}
	return user, nil
}

// GetByEmail looks up a user by exact email match. The query scans up to
// two rows: a second match means the uniqueness constraint was violated
// out-of-band, which must surface as ErrEmailConflict rather than be
// papered over by picking one.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, display_name, password_hash, active, created_at, updated_at
		 FROM users WHERE email = ? LIMIT 2`, email,
	)
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	defer rows.Close()

	var matched []*domain.User
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(&user.ID, &user.Email, &user.DisplayName, &user.PasswordHash, &user.Active, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		matched = append(matched, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}

	switch len(matched) {
	case 0:
		return nil, domain.ErrNotFound
	case 1:
		return matched[0], nil
	default:
		return nil, domain.ErrEmailConflict
	}
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
