package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mkerrall/waypost/internal/domain"
	"github.com/mkerrall/waypost/internal/service"
)

func newTestAccountService(t *testing.T) *service.AccountService {
	t.Helper()
	db := newTestDB(t)
	// Use cost 4 for fast tests.
	return service.NewAccountService(db.Users(), service.NewBcryptHasher(4))
}

func TestAccountService_Register_Success(t *testing.T) {
	accounts := newTestAccountService(t)
	ctx := context.Background()

	user, err := accounts.Register(ctx, "new@example.com", "New User", "password123", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if user.ID == 0 {
		t.Fatal("expected user ID to be set")
	}
	if user.Email != "new@example.com" {
		t.Fatalf("expected email new@example.com, got %s", user.Email)
	}
	if !user.Active {
		t.Fatal("expected new account to be active")
	}
	if user.PasswordHash == "password123" || user.PasswordHash == "" {
		t.Fatal("expected password to be stored hashed")
	}
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	accounts := newTestAccountService(t)
	ctx := context.Background()

	if _, err := accounts.Register(ctx, "dup@example.com", "User 1", "password123", "password123"); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := accounts.Register(ctx, "dup@example.com", "User 2", "password456", "password456")
	if !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestAccountService_Register_WeakPassword(t *testing.T) {
	accounts := newTestAccountService(t)

	_, err := accounts.Register(context.Background(), "weak@example.com", "Weak", "short", "short")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAccountService_Register_PasswordMismatch(t *testing.T) {
	accounts := newTestAccountService(t)

	_, err := accounts.Register(context.Background(), "mismatch@example.com", "Mismatch", "password123", "different456")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for password mismatch, got %v", err)
	}
}

func TestAccountService_Register_EmptyFields(t *testing.T) {
	accounts := newTestAccountService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		display  string
		password string
	}{
		{"empty email", "", "Name", "password123"},
		{"empty display name", "a@b.com", "", "password123"},
		{"empty password", "a@b.com", "Name", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := accounts.Register(ctx, tc.email, tc.display, tc.password, tc.password)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
