// internal/auth/token.go
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	custom_errors "portfolio-backend/internal/errors"
)

// Claims identify an admin session.
type Claims struct {
	Email string `json:"email,omitempty"`
	Login string `json:"login,omitempty"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a session for subject. It returns the token and its expiry.
func (t *Tokens) Issue(subject string, claims Claims) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies a token and returns its claims. Any failure is ErrUnauthorized.
func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", custom_errors.ErrUnauthorized, err)
	}
	return claims, nil
}
