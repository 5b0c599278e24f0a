package admin

import (
	"context"

	"github.com/google/uuid"

	"github.com/printq/printq-backend/internal/modules/user"
)

// Repository defines data access for account administration.
type Repository interface {
	// ListUsers retrieves all accounts, newest first.
	ListUsers(ctx context.Context) ([]*user.User, error)

	// SetUserActive flips the active flag, or user.ErrNotFound.
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) error

	// CountActiveJobs counts the user's shop jobs still in flight
	// (neither completed nor cancelled). Zero for non shop owners.
	CountActiveJobs(ctx context.Context, userID uuid.UUID) (int, error)

	// ListShopObjectKeys returns the storage keys of everything the
	// user's shop put in the bucket: the folder marker and every job
	// attachment. Empty for non shop owners.
	ListShopObjectKeys(ctx context.Context, userID uuid.UUID) ([]string, error)

	// DeleteUser removes the account and, for shop owners, the shop
	// row and its pricing configs and jobs in one transaction.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}
