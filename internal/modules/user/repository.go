package user

import (
	"context"
	"errors"
)

// ErrNotFound means no account exists with the requested key.
var ErrNotFound = errors.New("user not found")

// Repository defines data access for accounts.
type Repository interface {
	// CreateUser persists a new account.
	CreateUser(ctx context.Context, u *User) error

	// GetUserByID retrieves an account by UUID, or ErrNotFound.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByEmail retrieves an account by email, or ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUserByPhone retrieves an account by phone number, or ErrNotFound.
	GetUserByPhone(ctx context.Context, phoneNumber string) (*User, error)
}
