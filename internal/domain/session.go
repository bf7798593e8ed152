package domain

import (
	"context"
	"time"
)

// Session is a server-side browser session. The cookie carries the raw
// token; only its SHA-256 hash is stored.
type Session struct {
	ID         string
	UserID     int64
	TokenHash  string
	CreatedAt  time.Time
	LastSeenAt time.Time
	ExpiresAt  time.Time
}

// SessionRepository defines persistence operations for sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	// Touch records activity and slides the expiry forward.
	Touch(ctx context.Context, id string, lastSeen, expires time.Time) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
