package domain

import (
	"context"
	"time"
)

// User represents a registered user of the application.
// PasswordHash must never appear in an API response.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Bio          string
	Avatar       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate carries optional profile fields. Only non-nil fields are applied.
type UserUpdate struct {
	Name   *string
	Bio    *string
	Avatar *string
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id string, update UserUpdate) (*User, error)
}
