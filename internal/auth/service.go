// internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"portfolio-backend/internal/database"
	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/model"
)

// UserStore is the part of the store that holds admin credentials.
type UserStore interface {
	GetAdminUserByEmail(ctx context.Context, email string) (model.AdminUser, error)
	UpsertAdminUser(ctx context.Context, arg database.UpsertAdminUserParams) (model.AdminUser, error)
}

// Session is a signed-in admin.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Service signs admins in with email and password.
type Service struct {
	users  UserStore
	tokens *Tokens
	logger *slog.Logger
}

func NewService(users UserStore, tokens *Tokens, logger *slog.Logger) *Service {
	return &Service{users: users, tokens: tokens, logger: logger}
}

// HashPassword hashes a plain-text password with bcrypt.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// Login checks the credentials and opens a session. Unknown emails and wrong
// passwords both return ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetAdminUserByEmail(ctx, email)
	if errors.Is(err, custom_errors.ErrNotFound) {
		s.logger.Info("Rejected sign-in for unknown email")
		return nil, custom_errors.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Rejected sign-in with wrong password", "user_id", user.ID)
		return nil, custom_errors.ErrUnauthorized
	}

	token, exp, err := s.tokens.Issue(user.ID.String(), Claims{Email: user.Email})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Admin signed in", "user_id", user.ID)
	return &Session{Token: token, ExpiresAt: exp}, nil
}

// EnsureAdmin creates the bootstrap admin, or resets its password if it exists.
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user, err := s.users.UpsertAdminUser(ctx, database.UpsertAdminUserParams{Email: email, PasswordHash: hash})
	if err != nil {
		return err
	}
	s.logger.Info("Bootstrap admin ensured", "user_id", user.ID)
	return nil
}
