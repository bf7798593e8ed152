package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mkerrall/waypost/internal/domain"
)

// SessionService manages server-side browser sessions. Cookies carry an
// opaque random token; only its SHA-256 hash is persisted.
type SessionService struct {
	sessions domain.SessionRepository
	users    domain.UserRepository
	ttl      time.Duration
}

// NewSessionService creates a SessionService with the given session lifetime.
func NewSessionService(sessions domain.SessionRepository, users domain.UserRepository, ttl time.Duration) *SessionService {
	return &SessionService{sessions: sessions, users: users, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (s *SessionService) TTL() time.Duration { return s.ttl }

// Create starts a session for the user and returns it together with the
// raw cookie token.
func (s *SessionService) Create(ctx context.Context, userID int64) (*domain.Session, string, error) {
	token, err := generateToken()
	if err != nil {
		return nil, "", fmt.Errorf("generate session token: %w", err)
	}

	now := time.Now().UTC()
	session := &domain.Session{
		ID:         uuid.NewString(),
		UserID:     userID,
		TokenHash:  hashToken(token),
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}
	return session, token, nil
}

// Authenticate resolves the session and user behind a cookie token.
// Expired sessions and sessions for vanished or inactive users are
// rejected; expired ones are deleted on sight.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*domain.User, *domain.Session, error) {
	if token == "" {
		return nil, nil, domain.ErrUnauthorized
	}

	session, err := s.sessions.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("get session: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = s.sessions.Delete(ctx, session.ID)
			return nil, nil, domain.ErrUnauthorized
		}
		return nil, nil, fmt.Errorf("get session user: %w", err)
	}
	if !user.Active {
		return nil, nil, domain.ErrUnauthorized
	}

	return user, session, nil
}

// Touch persists the session again: activity is recorded and the expiry
// slides forward by the full TTL.
func (s *SessionService) Touch(ctx context.Context, session *domain.Session) error {
	now := time.Now().UTC()
	expires := now.Add(s.ttl)
	if err := s.sessions.Touch(ctx, session.ID, now, expires); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	session.LastSeenAt = now
	session.ExpiresAt = expires
	return nil
}

// Revoke ends the session behind the given cookie token, if any.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	session, err := s.sessions.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("get session: %w", err)
	}
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// PurgeExpired removes expired sessions, returning how many were deleted.
func (s *SessionService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, time.Now().UTC())
}

func generateToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
