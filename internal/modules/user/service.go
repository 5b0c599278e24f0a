package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken means another account already uses this email.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrPhoneTaken means another account already uses this phone number.
	ErrPhoneTaken = errors.New("user with this phone number already exists")
)

// ValidationError reports a missing or malformed registration field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// RegisterRequest is the payload for creating a customer or admin account.
// Shop owners register through the shop module.
type RegisterRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

// Service defines the interface for account business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	GetUser(ctx context.Context, id string) (*User, error)
}

type service struct {
	repo Repository
}

// NewService creates a new user service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Email == "" {
		return nil, &ValidationError{Field: "email", Reason: "is required"}
	}
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "is required"}
	}
	if req.PhoneNumber == "" {
		return nil, &ValidationError{Field: "phone_number", Reason: "is required"}
	}
	if req.Password == "" {
		return nil, &ValidationError{Field: "password", Reason: "is required"}
	}

	role := Role(req.Role)
	if req.Role == "" {
		role = RoleCustomer
	}
	if role != RoleCustomer && role != RoleAdmin {
		return nil, &ValidationError{Field: "role", Reason: "must be CUSTOMER or ADMIN"}
	}

	if _, err := s.repo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if _, err := s.repo.GetUserByPhone(ctx, req.PhoneNumber); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check phone number: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
		Name:         req.Name,
		PhoneNumber:  req.PhoneNumber,
		Address:      req.Address,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("persist user: %w", err)
	}
	return u, nil
}

func (s *service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetUserByID(ctx, id)
}
