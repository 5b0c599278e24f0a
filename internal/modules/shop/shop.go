package shop

import (
	"time"

	"github.com/google/uuid"
)

// Shop represents a print shop and, via the joined owner account, its
// contact details.
type Shop struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ShopName  string    `json:"shop_name"`
	QRCodeURL string    `json:"qr_code_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined from the owner account, never written through this module.
	OwnerName   string `json:"owner_name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}
