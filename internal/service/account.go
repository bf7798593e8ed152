package service

import (
	"context"
	"fmt"

	"github.com/mkerrall/waypost/internal/domain"
)

// AccountService handles account creation.
type AccountService struct {
	users  domain.UserRepository
	hasher PasswordHasher
}

// NewAccountService creates a new AccountService.
func NewAccountService(users domain.UserRepository, hasher PasswordHasher) *AccountService {
	return &AccountService{users: users, hasher: hasher}
}

// Register creates a new active account after validating inputs.
func (s *AccountService) Register(ctx context.Context, email, displayName, password, confirmPassword string) (*domain.User, error) {
	if email == "" || displayName == "" || password == "" {
		return nil, fmt.Errorf("%w: email, display name, and password are required", domain.ErrInvalidInput)
	}
	if password != confirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", domain.ErrInvalidInput)
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrInvalidInput)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}
