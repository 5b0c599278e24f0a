package shop

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/crypto/bcrypt"

	"github.com/printq/printq-backend/internal/modules/user"
)

const qrCodeSize = 256

// ValidationError reports a missing or malformed registration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// FileStore is the slice of object storage shop registration needs.
type FileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
}

// RegisterRequest is the payload for creating a shop and its owner account.
type RegisterRequest struct {
	ShopName    string `json:"shop_name"`
	OwnerName   string `json:"owner_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Password    string `json:"password"`
}

// Service defines the interface for shop business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Shop, error)
	GetShop(ctx context.Context, id uuid.UUID) (*Shop, error)
	ListShops(ctx context.Context) ([]*Shop, error)
}

type service struct {
	repo        Repository
	users       user.Repository
	files       FileStore
	frontendURL string
	logger      *slog.Logger
}

// NewService creates a new shop service. frontendURL is the base the
// portal QR code points at.
func NewService(repo Repository, users user.Repository, files FileStore, frontendURL string, logger *slog.Logger) Service {
	return &service{repo: repo, users: users, files: files, frontendURL: frontendURL, logger: logger}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Shop, error) {
	if req.ShopName == "" {
		return nil, &ValidationError{Field: "shop_name", Reason: "is required"}
	}
	if req.OwnerName == "" {
		return nil, &ValidationError{Field: "owner_name", Reason: "is required"}
	}
	if req.Email == "" {
		return nil, &ValidationError{Field: "email", Reason: "is required"}
	}
	if req.PhoneNumber == "" {
		return nil, &ValidationError{Field: "phone_number", Reason: "is required"}
	}
	if req.Password == "" {
		return nil, &ValidationError{Field: "password", Reason: "is required"}
	}

	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, user.ErrEmailTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.users.GetUserByPhone(ctx, req.PhoneNumber); err == nil {
		return nil, user.ErrPhoneTaken
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("check phone number: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	owner := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.OwnerName,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		Role:         user.RoleShopOwner,
		IsActive:     true,
	}
	shop := &Shop{
		ID:       uuid.New(),
		UserID:   owner.ID,
		ShopName: req.ShopName,
	}

	if err := s.repo.CreateWithOwner(ctx, owner, shop); err != nil {
		return nil, fmt.Errorf("persist shop: %w", err)
	}

	// The marker object makes the shop's upload prefix visible in
	// bucket listings before the first job arrives.
	markerKey := fmt.Sprintf("shops/%s/.folder", shop.ID)
	if err := s.files.Upload(ctx, markerKey, bytes.NewReader(nil), 0, "application/octet-stream"); err != nil {
		s.logger.Warn("seed shop folder failed", "shop_id", shop.ID, "error", err)
	}

	if qrURL, err := s.portalQRCode(shop.ID); err != nil {
		s.logger.Warn("generate shop qr code failed", "shop_id", shop.ID, "error", err)
	} else if err := s.repo.UpdateQRCode(ctx, shop.ID, qrURL); err != nil {
		s.logger.Warn("persist shop qr code failed", "shop_id", shop.ID, "error", err)
	} else {
		shop.QRCodeURL = qrURL
	}

	shop.OwnerName = owner.Name
	shop.Email = owner.Email
	shop.PhoneNumber = owner.PhoneNumber
	return shop, nil
}

// portalQRCode renders the customer-facing portal link for a shop as a
// PNG data URL.
func (s *service) portalQRCode(shopID uuid.UUID) (string, error) {
	link := fmt.Sprintf("%s/preferences/%s", s.frontendURL, shopID)
	png, err := qrcode.Encode(link, qrcode.Medium, qrCodeSize)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func (s *service) GetShop(ctx context.Context, id uuid.UUID) (*Shop, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListShops(ctx context.Context) ([]*Shop, error) {
	return s.repo.List(ctx)
}
