package auth

import (
	"context"
	"errors"
)

// ErrInvalidCredentials covers unknown emails, wrong passwords, and
// deactivated accounts without distinguishing them to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service defines the interface for authentication business logic.
type Service interface {
	Login(ctx context.Context, email, password string) (string, error)
}
