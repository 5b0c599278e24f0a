package pricing

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Service defines pricing configuration management and the cost resolver
// used by the print job engine.
type Service interface {
	CreateConfig(ctx context.Context, req CreateConfigRequest) (*PricingConfig, error)
	GetConfig(ctx context.Context, id string) (*PricingConfig, error)
	ListShopConfigs(ctx context.Context, shopOwnerID string) ([]*PricingConfig, error)
	UpdateConfig(ctx context.Context, id string, req UpdateConfigRequest) (*PricingConfig, error)
	DeleteConfig(ctx context.Context, id string) error

	// Quote computes the total cost of a job: the side-selected unit price
	// times total pages times copies, rounded to 2 fraction digits.
	Quote(ctx context.Context, shopOwnerID uuid.UUID, paper PaperType, print PrintType, side PrintSide, totalPages, copies int) (float64, error)
}

type service struct{ repo Repository }

// NewService creates a new pricing service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) CreateConfig(ctx context.Context, req CreateConfigRequest) (*PricingConfig, error) {
	shopID, err := uuid.Parse(req.ShopOwnerID)
	if err != nil {
		return nil, &ValidationError{Field: "shop_owner_id", Reason: "must be a valid UUID"}
	}
	paper, print, err := parseMedium(req.PaperType, req.PrintType)
	if err != nil {
		return nil, err
	}
	if req.SingleSided <= 0 {
		return nil, &ValidationError{Field: "single_sided", Reason: "must be a positive price"}
	}
	if req.DoubleSided <= 0 {
		return nil, &ValidationError{Field: "double_sided", Reason: "must be a positive price"}
	}

	dup, err := s.repo.HasDuplicate(ctx, shopID, paper, print, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("check duplicate config: %w", err)
	}
	if dup {
		return nil, fmt.Errorf("%s %s: %w", paper, print, ErrDuplicateConfig)
	}

	now := time.Now()
	c := &PricingConfig{
		ID:          uuid.New(),
		ShopOwnerID: shopID,
		PaperType:   paper,
		PrintType:   print,
		SingleSided: req.SingleSided,
		DoubleSided: req.DoubleSided,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("persist pricing config: %w", err)
	}
	return c, nil
}

func (s *service) GetConfig(ctx context.Context, id string) (*PricingConfig, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListShopConfigs(ctx context.Context, shopOwnerID string) ([]*PricingConfig, error) {
	return s.repo.ListByShop(ctx, shopOwnerID)
}

func (s *service) UpdateConfig(ctx context.Context, id string, req UpdateConfigRequest) (*PricingConfig, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	paper, print, err := parseMedium(req.PaperType, req.PrintType)
	if err != nil {
		return nil, err
	}
	if req.SingleSided <= 0 {
		return nil, &ValidationError{Field: "single_sided", Reason: "must be a positive price"}
	}
	if req.DoubleSided <= 0 {
		return nil, &ValidationError{Field: "double_sided", Reason: "must be a positive price"}
	}

	// Moving this row onto a medium already priced by another row would
	// break the one-config-per-medium invariant.
	dup, err := s.repo.HasDuplicate(ctx, c.ShopOwnerID, paper, print, c.ID)
	if err != nil {
		return nil, fmt.Errorf("check duplicate config: %w", err)
	}
	if dup {
		return nil, fmt.Errorf("%s %s: %w", paper, print, ErrDuplicateConfig)
	}

	c.PaperType = paper
	c.PrintType = print
	c.SingleSided = req.SingleSided
	c.DoubleSided = req.DoubleSided
	c.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("update pricing config: %w", err)
	}
	return c, nil
}

func (s *service) DeleteConfig(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Quote(ctx context.Context, shopOwnerID uuid.UUID, paper PaperType, print PrintType, side PrintSide, totalPages, copies int) (float64, error) {
	c, err := s.repo.GetByMedium(ctx, shopOwnerID, paper, print)
	if err != nil {
		return 0, err
	}

	unitPrice := c.SingleSided
	if side == DoubleSided {
		unitPrice = c.DoubleSided
	}
	return round2(unitPrice * float64(totalPages) * float64(copies)), nil
}

func parseMedium(paperType, printType string) (PaperType, PrintType, error) {
	paper := PaperType(strings.ToUpper(strings.TrimSpace(paperType)))
	if !paper.Valid() {
		return "", "", &ValidationError{Field: "paper_type", Reason: "must be one of A0-A5, LEGAL, LETTER, TABLOID"}
	}
	print := PrintType(strings.ToUpper(strings.TrimSpace(printType)))
	if !print.Valid() {
		return "", "", &ValidationError{Field: "print_type", Reason: "must be COLOR or BLACK_WHITE"}
	}
	return paper, print, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
