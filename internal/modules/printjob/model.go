package printjob

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/printq/printq-backend/internal/modules/pricing"
)

// JobStatus represents the lifecycle state of a print job.
type JobStatus string

const (
	StatusPending    JobStatus = "PENDING"
	StatusProcessing JobStatus = "PROCESSING"
	StatusCompleted  JobStatus = "COMPLETED"
	StatusCancelled  JobStatus = "CANCELLED"
)

func (s JobStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// PrintJob is one customer print request submitted to a shop.
type PrintJob struct {
	ID            uuid.UUID         `json:"id"`
	ShopOwnerID   uuid.UUID         `json:"shop_owner_id"`
	TokenNumber   string            `json:"token_number"`
	CustomerName  string            `json:"customer_name,omitempty"`
	CustomerPhone string            `json:"customer_phone,omitempty"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	SpecificPages string            `json:"specific_pages,omitempty"`
	Copies        int               `json:"noof_copies"`
	PrintType     pricing.PrintType `json:"print_type"`
	PaperType     pricing.PaperType `json:"paper_type"`
	PrintSide     pricing.PrintSide `json:"print_side"`
	TotalPages    int               `json:"total_pages"`
	TotalCost     float64           `json:"total_cost"`
	Status        JobStatus         `json:"status"`
	Files         []*PrintJobFile   `json:"files,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// PrintJobFile is one uploaded attachment owned by exactly one job. FileURL
// is a time-limited signed reference; UpdatedAt records when it was last
// issued, which drives lazy renewal on reads.
type PrintJobFile struct {
	ID         uuid.UUID `json:"id"`
	PrintJobID uuid.UUID `json:"print_job_id"`
	FileName   string    `json:"file_name"`
	FileURL    string    `json:"file_url"`
	FileType   string    `json:"file_type"`
	Pages      int       `json:"pages"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FileUpload carries one attachment of a submission through the service.
type FileUpload struct {
	Name        string
	ContentType string
	Data        []byte
}

// SubmitRequest is the intake payload, shaped from the multipart form by
// the handler. Copies stays a string so the service owns the coercion rule.
type SubmitRequest struct {
	ShopOwnerID   string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Copies        string
	PrintType     string
	PaperType     string
	PrintSide     string
	SpecificPages string
	Files         []FileUpload
}

// UpdateStatusRequest is the payload for advancing a job's status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// generateTokenNumber creates the customer-facing job token:
// PJ-<epoch millis>-<0..999>. Uniqueness is best effort; collisions are
// accepted as negligible.
func generateTokenNumber() string {
	return fmt.Sprintf("PJ-%d-%d", time.Now().UnixMilli(), rand.Intn(1000))
}

// objectKey builds the storage path for one attachment, scoped by shop and
// job so completed jobs can be wound down per shop folder.
func objectKey(shopOwnerID, jobID uuid.UUID, fileName string) string {
	return fmt.Sprintf("shops/%s/%s_%s", shopOwnerID, jobID, fileName)
}
