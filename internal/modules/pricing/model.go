package pricing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PaperType enumerates the standard paper sizes a shop can price.
type PaperType string

const (
	PaperA0      PaperType = "A0"
	PaperA1      PaperType = "A1"
	PaperA2      PaperType = "A2"
	PaperA3      PaperType = "A3"
	PaperA4      PaperType = "A4"
	PaperA5      PaperType = "A5"
	PaperLegal   PaperType = "LEGAL"
	PaperLetter  PaperType = "LETTER"
	PaperTabloid PaperType = "TABLOID"
)

// PrintType is the color mode of a job.
type PrintType string

const (
	PrintColor      PrintType = "COLOR"
	PrintBlackWhite PrintType = "BLACK_WHITE"
)

// PrintSide selects which unit price of a config applies.
type PrintSide string

const (
	SingleSided PrintSide = "SINGLE_SIDED"
	DoubleSided PrintSide = "DOUBLE_SIDED"
)

func (p PaperType) Valid() bool {
	switch p {
	case PaperA0, PaperA1, PaperA2, PaperA3, PaperA4, PaperA5, PaperLegal, PaperLetter, PaperTabloid:
		return true
	}
	return false
}

func (p PrintType) Valid() bool {
	return p == PrintColor || p == PrintBlackWhite
}

func (p PrintSide) Valid() bool {
	return p == SingleSided || p == DoubleSided
}

// PricingConfig is one price point for a (shop, paper type, print type)
// combination. At most one row may exist per combination.
type PricingConfig struct {
	ID          uuid.UUID `json:"id"`
	ShopOwnerID uuid.UUID `json:"shop_owner_id"`
	PaperType   PaperType `json:"paper_type"`
	PrintType   PrintType `json:"print_type"`
	SingleSided float64   `json:"single_sided"`
	DoubleSided float64   `json:"double_sided"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateConfigRequest is the payload for adding a price point.
type CreateConfigRequest struct {
	ShopOwnerID string  `json:"shop_owner_id"`
	PaperType   string  `json:"paper_type"`
	PrintType   string  `json:"print_type"`
	SingleSided float64 `json:"single_sided"`
	DoubleSided float64 `json:"double_sided"`
}

// UpdateConfigRequest is the payload for editing a price point. The owning
// shop is immutable and therefore absent.
type UpdateConfigRequest struct {
	PaperType   string  `json:"paper_type"`
	PrintType   string  `json:"print_type"`
	SingleSided float64 `json:"single_sided"`
	DoubleSided float64 `json:"double_sided"`
}

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}
