package printjob

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines data access for print jobs and their files.
type Repository interface {
	// CreateJob persists a new job row in PENDING state. Total cost is
	// written separately once pricing has been resolved.
	CreateJob(ctx context.Context, job *PrintJob) error

	// UpdateTotalCost writes the resolved cost onto an existing job.
	UpdateTotalCost(ctx context.Context, jobID uuid.UUID, totalCost float64) error

	// CreateFile persists one attachment row.
	CreateFile(ctx context.Context, file *PrintJobFile) error

	// GetJobByID retrieves a job with its files, or ErrNotFound.
	GetJobByID(ctx context.Context, id string) (*PrintJob, error)

	// GetJobByToken retrieves a job summary by its token number, without
	// files, or ErrNotFound.
	GetJobByToken(ctx context.Context, tokenNumber string) (*PrintJob, error)

	// ListJobsByShop returns a shop's jobs with files, newest first,
	// optionally filtered by status (empty means all).
	ListJobsByShop(ctx context.Context, shopOwnerID string, status JobStatus) ([]*PrintJob, error)

	// UpdateStatus advances a job to a new status.
	UpdateStatus(ctx context.Context, jobID uuid.UUID, status JobStatus) error

	// UpdateFileURL stores a freshly issued signed URL and bumps the file's
	// updated_at, which restarts the staleness window.
	UpdateFileURL(ctx context.Context, fileID uuid.UUID, fileURL string) error
}
