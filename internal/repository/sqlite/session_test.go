package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mkerrall/waypost/internal/domain"
	"github.com/mkerrall/waypost/internal/repository/sqlite"
)

func createTestUser(t *testing.T, db *sqlite.DB) *domain.User {
	t.Helper()
	user := &domain.User{Email: "member@example.com", DisplayName: "Member", PasswordHash: "h", Active: true}
	if err := db.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func newSession(userID int64, id, tokenHash string, expiresAt time.Time) *domain.Session {
	now := time.Now().UTC()
	return &domain.Session{
		ID:         id,
		UserID:     userID,
		TokenHash:  tokenHash,
		CreatedAt:  now,
		LastSeenAt: now,
		ExpiresAt:  expiresAt,
	}
}

func TestSessionRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	ctx := context.Background()

	session := newSession(user.ID, "sess-1", "hash-1", time.Now().UTC().Add(time.Hour))
	if err := db.Sessions().Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := db.Sessions().GetByTokenHash(ctx, "hash-1")
	if err != nil {
		t.Fatalf("GetByTokenHash: %v", err)
	}
	if got.ID != "sess-1" || got.UserID != user.ID {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestSessionRepository_GetByTokenHash_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Sessions().GetByTokenHash(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_Touch(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	ctx := context.Background()

	session := newSession(user.ID, "sess-1", "hash-1", time.Now().UTC().Add(time.Hour))
	if err := db.Sessions().Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}

	newSeen := time.Now().UTC().Add(10 * time.Minute)
	newExpiry := time.Now().UTC().Add(2 * time.Hour)
	if err := db.Sessions().Touch(ctx, "sess-1", newSeen, newExpiry); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	got, err := db.Sessions().GetByTokenHash(ctx, "hash-1")
	if err != nil {
		t.Fatalf("GetByTokenHash: %v", err)
	}
	if !got.LastSeenAt.Equal(newSeen) {
		t.Fatalf("expected last seen %v, got %v", newSeen, got.LastSeenAt)
	}
	if !got.ExpiresAt.Equal(newExpiry) {
		t.Fatalf("expected expiry %v, got %v", newExpiry, got.ExpiresAt)
	}
}

func TestSessionRepository_Touch_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Sessions().Touch(context.Background(), "missing", time.Now(), time.Now())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	ctx := context.Background()

	session := newSession(user.ID, "sess-1", "hash-1", time.Now().UTC().Add(time.Hour))
	if err := db.Sessions().Create(ctx, session); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := db.Sessions().Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Sessions().GetByTokenHash(ctx, "hash-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting a missing session is a no-op.
	if err := db.Sessions().Delete(ctx, "sess-1"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, expiry := range []time.Time{now.Add(-time.Hour), now.Add(-time.Minute), now.Add(time.Hour)} {
		session := newSession(user.ID, "sess-"+string(rune('a'+i)), "hash-"+string(rune('a'+i)), expiry)
		if err := db.Sessions().Create(ctx, session); err != nil {
			t.Fatalf("Create #%d: %v", i, err)
		}
	}

	n, err := db.Sessions().DeleteExpired(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deleted, got %d", n)
	}

	if _, err := db.Sessions().GetByTokenHash(ctx, "hash-c"); err != nil {
		t.Fatalf("live session must remain: %v", err)
	}
}
