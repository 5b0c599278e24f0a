package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound means no config row exists with the requested id.
	ErrNotFound = errors.New("pricing config not found")

	// ErrConfigNotFound means the shop has no price point for the requested
	// medium; jobs for that medium cannot be costed until one is added.
	ErrConfigNotFound = errors.New("no pricing configuration for this paper and print type")

	// ErrDuplicateConfig means a config for the same (shop, paper, print)
	// combination already exists.
	ErrDuplicateConfig = errors.New("pricing configuration already exists for this paper and print type")
)

// Repository defines data access for pricing configurations.
type Repository interface {
	// Create persists a new price point.
	Create(ctx context.Context, c *PricingConfig) error

	// GetByID retrieves a config row by its id.
	GetByID(ctx context.Context, id string) (*PricingConfig, error)

	// GetByMedium retrieves the unique config for a (shop, paper, print)
	// combination, or ErrConfigNotFound.
	GetByMedium(ctx context.Context, shopOwnerID uuid.UUID, paper PaperType, print PrintType) (*PricingConfig, error)

	// ListByShop returns all configs for a shop ordered by paper then print type.
	ListByShop(ctx context.Context, shopOwnerID string) ([]*PricingConfig, error)

	// HasDuplicate reports whether another row (id != excludeID) exists for
	// the same (shop, paper, print) combination.
	HasDuplicate(ctx context.Context, shopOwnerID uuid.UUID, paper PaperType, print PrintType, excludeID uuid.UUID) (bool, error)

	// Update rewrites an existing config row.
	Update(ctx context.Context, c *PricingConfig) error

	// Delete removes a config row.
	Delete(ctx context.Context, id string) error
}
