package shop

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/printq/printq-backend/internal/modules/user"
)

// ErrNotFound means no shop exists with the requested ID.
var ErrNotFound = errors.New("shop not found")

// Repository defines data access for shops.
type Repository interface {
	// CreateWithOwner persists the owner account and the shop row in a
	// single transaction.
	CreateWithOwner(ctx context.Context, u *user.User, s *Shop) error

	// GetByID retrieves a shop with owner contact details, or ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Shop, error)

	// List retrieves all shops with owner contact details, newest first.
	List(ctx context.Context) ([]*Shop, error)

	// UpdateQRCode stores the shop's portal QR code data URL.
	UpdateQRCode(ctx context.Context, id uuid.UUID, qrCodeURL string) error
}
