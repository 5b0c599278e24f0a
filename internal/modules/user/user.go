package user

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies an account.
type Role string

const (
	RoleCustomer  Role = "CUSTOMER"
	RoleShopOwner Role = "SHOP_OWNER"
	RoleAdmin     Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleShopOwner, RoleAdmin:
		return true
	}
	return false
}

// User represents an account in the system. Shop owners additionally have a
// shop record owned by the shop module.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	PhoneNumber  string    `json:"phone_number"`
	Address      string    `json:"address,omitempty"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
