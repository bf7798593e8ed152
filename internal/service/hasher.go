package service

import "golang.org/x/crypto/bcrypt"

// PasswordHasher abstracts the password hashing primitive so the
// authentication core can be instrumented in tests.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)
	// Compare checks a plaintext password against a stored hash.
	// A nil return means the password matches.
	Compare(hash, password string) error
}

// BcryptHasher is the production PasswordHasher.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h *BcryptHasher) Compare(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
