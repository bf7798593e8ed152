package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mkerrall/waypost/internal/domain"
)

// TokenService issues and validates the signed JWTs used by the JSON API.
type TokenService struct {
	secret   []byte
	validity time.Duration
}

// NewTokenService creates a TokenService signing with the given secret.
func NewTokenService(secret string, validity time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), validity: validity}
}

// Issue signs a token for the user.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":          strconv.FormatInt(user.ID, 10),
		"email":        user.Email,
		"display_name": user.DisplayName,
		"iat":          now.Unix(),
		"exp":          now.Add(s.validity).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Validate parses and validates a token string and returns the user ID
// from the sub claim.
func (s *TokenService) Validate(tokenString string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return 0, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, domain.ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return 0, domain.ErrUnauthorized
	}
	return userID, nil
}
