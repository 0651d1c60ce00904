package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/msomdec/taskflow/internal/auth"
	"github.com/msomdec/taskflow/internal/domain"
	"github.com/msomdec/taskflow/internal/security"
)

// AuthService handles user registration, login, and token-based
// authentication.
type AuthService struct {
	users      domain.UserRepository
	tokens     *auth.TokenIssuer
	bcryptCost int
}

// NewAuthService creates a new AuthService.
func NewAuthService(users domain.UserRepository, tokens *auth.TokenIssuer, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user and returns it together with a freshly issued
// token. Input shape validation happens at the handler boundary; this method
// enforces email uniqueness and never stores the plaintext password.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	email = NormalizeEmail(email)

	// Pre-check gives a clean conflict; the unique index closes the race.
	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil, "", domain.ErrDuplicateEmail
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("check existing email: %w", err)
	}

	hash, err := security.Hash(password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Login verifies credentials and returns the user with a freshly issued
// token. Unknown email and wrong password are indistinguishable to the
// caller, so login failures cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	ok, err := security.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Authenticate resolves a bearer token into a user. Any token-level failure
// (malformed, tampered, expired) and a vanished user all collapse into
// ErrUnauthorized; backend outages propagate as ErrUnavailable.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*domain.User, error) {
	userID, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUnavailable) {
			return nil, err
		}
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// NormalizeEmail lowercases and trims an email address so lookups and the
// unique index agree on a canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
