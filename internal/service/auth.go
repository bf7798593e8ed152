package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mkerrall/waypost/internal/domain"
)

// Backend resolves a claimed identifier and password to a user account.
// A (nil, nil) return means "no match here" and lets the caller try the
// next backend; errors are reserved for operational failures.
type Backend interface {
	Authenticate(ctx context.Context, identifier, password string) (*domain.User, error)
}

// EmailBackend authenticates users by email address and password.
//
// When no account matches the email it still performs one password-hash
// comparison against a throwaway hash generated with the same cost
// parameters, so the found and not-found paths cannot be told apart by
// response latency.
type EmailBackend struct {
	users     domain.UserRepository
	hasher    PasswordHasher
	dummyHash string
}

// NewEmailBackend creates an EmailBackend. The dummy hash used on the
// not-found path is produced by the supplied hasher, so its cost always
// matches the real verification path.
func NewEmailBackend(users domain.UserRepository, hasher PasswordHasher) (*EmailBackend, error) {
	dummy, err := hasher.Hash("waypost.no-such-account")
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &EmailBackend{users: users, hasher: hasher, dummyHash: dummy}, nil
}

// Authenticate resolves the account whose email equals identifier and
// verifies password against its stored hash. Unknown email, wrong
// password, and inactive accounts all yield (nil, nil). Nothing is
// persisted; repeated calls with the same inputs give the same result.
func (b *EmailBackend) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	user, err := b.users.GetByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// Burn one hash comparison so a missing account costs the
			// same as a failed password check.
			b.hasher.Compare(b.dummyHash, password)
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if err := b.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, nil
	}
	if !user.Active {
		return nil, nil
	}
	return user, nil
}

// Pipeline tries a list of backends in order and returns the first
// resolved user. All-miss is (nil, nil), mirroring the backends.
type Pipeline struct {
	backends []Backend
}

// NewPipeline creates a Pipeline over the given backends.
func NewPipeline(backends ...Backend) *Pipeline {
	return &Pipeline{backends: backends}
}

func (p *Pipeline) Authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	for _, b := range p.backends {
		user, err := b.Authenticate(ctx, identifier, password)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}
	return nil, nil
}
