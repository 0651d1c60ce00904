package service

import (
	"context"
	"fmt"

	"github.com/msomdec/taskflow/internal/domain"
)

// UserService handles profile operations on existing users.
type UserService struct {
	users domain.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users domain.UserRepository) *UserService {
	return &UserService{users: users}
}

// UpdateProfile applies the non-nil fields of update to the user's profile
// and returns the updated user.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update domain.UserUpdate) (*domain.User, error) {
	if update.Name == nil && update.Bio == nil && update.Avatar == nil {
		return nil, fmt.Errorf("%w: no profile fields to update", domain.ErrInvalidInput)
	}

	user, err := s.users.Update(ctx, userID, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}
