package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/printq/printq-backend/internal/modules/user"
)

// ErrActiveJobs means the account still owns jobs that are neither
// completed nor cancelled.
var ErrActiveJobs = errors.New("user has active print jobs")

// FileStore is the slice of object storage account deletion needs.
type FileStore interface {
	Remove(ctx context.Context, key string) error
}

// Service defines the interface for account administration.
type Service interface {
	ListUsers(ctx context.Context) ([]*user.User, error)
	SetUserActive(ctx context.Context, id uuid.UUID, active bool) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo   Repository
	files  FileStore
	logger *slog.Logger
}

// NewService creates a new admin service.
func NewService(repo Repository, files FileStore, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &service{repo: repo, files: files, logger: logger}
}

func (s *service) ListUsers(ctx context.Context) ([]*user.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *service) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	return s.repo.SetUserActive(ctx, id, active)
}

func (s *service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	count, err := s.repo.CountActiveJobs(ctx, id)
	if err != nil {
		return fmt.Errorf("count active jobs: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d outstanding", ErrActiveJobs, count)
	}

	// Collect keys before the rows referencing them are gone.
	keys, err := s.repo.ListShopObjectKeys(ctx, id)
	if err != nil {
		return fmt.Errorf("list shop objects: %w", err)
	}

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}

	// Blob cleanup is best effort once the rows are deleted; an orphan
	// object expires with its last signed URL.
	for _, key := range keys {
		if err := s.files.Remove(ctx, key); err != nil {
			s.logger.Warn("remove shop object failed", "key", key, "error", err)
		}
	}
	return nil
}
