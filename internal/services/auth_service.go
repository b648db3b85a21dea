// Package services – AuthService
//
// This file implements the credential side of the access guard: staff
// registration and login. Passwords are bcrypt-hashed and never stored or
// logged in clear text. The session itself (cookie issuance, lookup on
// subsequent requests) lives in the HTTP middleware; this service only
// verifies principals.
package services

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kitadesk/kitadesk-backend/internal/domain"
	"github.com/kitadesk/kitadesk-backend/internal/repo"
)

// minPasswordLen is the lower bound enforced at registration.
const minPasswordLen = 6

// AuthService verifies and creates authentication principals.
type AuthService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// BcryptCost tunes hashing; values < bcrypt.MinCost fall back to
	// bcrypt.DefaultCost.
	BcryptCost int
}

// Register creates a staff account. The username must be unused and the
// password at least 6 characters; on success the caller is expected to
// establish a session for the new user.
func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return nil, ErrUsernameRequired
	case password == "":
		return nil, ErrPasswordRequired
	case len(password) < minPasswordLen:
		return nil, ErrPasswordTooShort
	}

	cost := s.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, err
	}

	user, err := repo.CreateUser(ctx, s.DB, username, string(hash))
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrUsernameTaken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns the matching user. Unknown
// usernames and wrong passwords both yield ErrInvalidCredentials so the
// caller cannot probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := repo.GetUserByUsername(ctx, s.DB, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser resolves a session's user ID back to the principal, or
// ErrInvalidCredentials when the account no longer exists (e.g. a stale
// session after the user row was removed by an operator).
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := repo.GetUser(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
