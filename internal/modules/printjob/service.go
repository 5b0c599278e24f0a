package printjob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/printq/printq-backend/internal/modules/pricing"
	"github.com/printq/printq-backend/internal/notify"
)

const (
	// uploadURLTTL is the validity of signed URLs issued at intake and on
	// lazy renewal.
	uploadURLTTL = 24 * time.Hour

	// completedURLTTL is the wind-down validity issued when a job
	// completes: a short grace window instead of immediate deletion.
	completedURLTTL = 5 * time.Minute

	// urlStaleAfter is the age beyond which a stored signed URL is renewed
	// before being returned to a caller.
	urlStaleAfter = 12 * time.Hour
)

// allowedFileTypes is the accepted set of attachment content types.
var allowedFileTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/png":  true,
}

// FileStore is the blob storage gateway the engine drives. URLs it issues
// expire after the requested TTL; the engine tracks staleness itself.
type FileStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// PriceQuoter resolves the total cost of a job from the shop's pricing
// configuration. Implemented by the pricing service.
type PriceQuoter interface {
	Quote(ctx context.Context, shopOwnerID uuid.UUID, paper pricing.PaperType, print pricing.PrintType, side pricing.PrintSide, totalPages, copies int) (float64, error)
}

// PageCounter estimates the page count of one attachment.
type PageCounter interface {
	CountPages(data []byte, contentType string) int
}

// Service defines the print job lifecycle engine.
type Service interface {
	// Submit validates a submission, computes pages and cost, persists the
	// job and its files, and notifies the shop's dashboard.
	Submit(ctx context.Context, req SubmitRequest) (*PrintJob, error)

	// UpdateStatus advances a job through the lifecycle state machine. On
	// completion every attachment gets a short-lived wind-down URL.
	UpdateStatus(ctx context.Context, jobID string, req UpdateStatusRequest) (*PrintJob, error)

	// ListShopJobs returns a shop's jobs newest first, optionally filtered
	// by status, renewing stale file references before returning them.
	ListShopJobs(ctx context.Context, shopOwnerID string, status string) ([]*PrintJob, error)

	// GetJobByToken returns a job summary for customer self-service
	// tracking. No file list.
	GetJobByToken(ctx context.Context, tokenNumber string) (*PrintJob, error)
}

type service struct {
	repo   Repository
	prices PriceQuoter
	files  FileStore
	pages  PageCounter
	events notify.Broadcaster
	logger *slog.Logger
}

// NewService creates the lifecycle engine. The broadcaster is a hard
// dependency: constructing the engine without one is a setup error.
func NewService(repo Repository, prices PriceQuoter, files FileStore, pages PageCounter, events notify.Broadcaster, logger *slog.Logger) (Service, error) {
	if events == nil {
		return nil, notify.ErrNotInitialized
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &service{
		repo:   repo,
		prices: prices,
		files:  files,
		pages:  pages,
		events: events,
		logger: logger,
	}, nil
}

// validTransitions defines the lifecycle state machine. Terminal states
// have no exits.
var validTransitions = map[JobStatus][]JobStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

func canTransition(from, to JobStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *service) Submit(ctx context.Context, req SubmitRequest) (*PrintJob, error) {
	shopID, err := uuid.Parse(strings.TrimSpace(req.ShopOwnerID))
	if err != nil {
		return nil, &ValidationError{Field: "shop_owner_id", Reason: "must be a valid UUID"}
	}
	copies, err := strconv.Atoi(strings.TrimSpace(req.Copies))
	if err != nil || copies <= 0 {
		return nil, &ValidationError{Field: "noof_copies", Reason: "must be a positive integer"}
	}
	if len(req.Files) == 0 {
		return nil, &ValidationError{Field: "files", Reason: "at least one file is required"}
	}
	for _, f := range req.Files {
		if !allowedFileTypes[f.ContentType] {
			return nil, &UnsupportedFileTypeError{ContentType: f.ContentType}
		}
	}

	printType := pricing.PrintType(strings.ToUpper(defaulted(req.PrintType, string(pricing.PrintBlackWhite))))
	if !printType.Valid() {
		return nil, &ValidationError{Field: "print_type", Reason: "must be COLOR or BLACK_WHITE"}
	}
	paperType := pricing.PaperType(strings.ToUpper(defaulted(req.PaperType, string(pricing.PaperA4))))
	if !paperType.Valid() {
		return nil, &ValidationError{Field: "paper_type", Reason: "must be one of A0-A5, LEGAL, LETTER, TABLOID"}
	}
	printSide := pricing.PrintSide(strings.ToUpper(defaulted(req.PrintSide, string(pricing.SingleSided))))
	if !printSide.Valid() {
		return nil, &ValidationError{Field: "print_side", Reason: "must be SINGLE_SIDED or DOUBLE_SIDED"}
	}

	// Page counts per file, summed before the job row is written so the
	// cost resolution can read the total.
	filePages := make([]int, len(req.Files))
	totalPages := 0
	for i, f := range req.Files {
		filePages[i] = s.pages.CountPages(f.Data, f.ContentType)
		totalPages += filePages[i]
	}

	now := time.Now().UTC()
	job := &PrintJob{
		ID:            uuid.New(),
		ShopOwnerID:   shopID,
		TokenNumber:   generateTokenNumber(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		SpecificPages: req.SpecificPages,
		Copies:        copies,
		PrintType:     printType,
		PaperType:     paperType,
		PrintSide:     printSide,
		TotalPages:    totalPages,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("persist print job: %w", err)
	}

	// Cost needs the persisted page total, so it is written in a second
	// step. A failure here leaves the job in PENDING with no cost; the
	// shop must configure pricing and the caller resubmit.
	totalCost, err := s.prices.Quote(ctx, shopID, paperType, printType, printSide, totalPages, copies)
	if err != nil {
		return nil, fmt.Errorf("price print job %s: %w", job.TokenNumber, err)
	}
	if err := s.repo.UpdateTotalCost(ctx, job.ID, totalCost); err != nil {
		return nil, fmt.Errorf("store total cost: %w", err)
	}
	job.TotalCost = totalCost

	for i, f := range req.Files {
		key := objectKey(job.ShopOwnerID, job.ID, f.Name)
		if err := s.files.Upload(ctx, key, bytes.NewReader(f.Data), int64(len(f.Data)), f.ContentType); err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		fileURL, err := s.files.PresignURL(ctx, key, uploadURLTTL)
		if err != nil {
			return nil, fmt.Errorf("sign url for %s: %w", f.Name, err)
		}

		file := &PrintJobFile{
			ID:         uuid.New(),
			PrintJobID: job.ID,
			FileName:   f.Name,
			FileURL:    fileURL,
			FileType:   f.ContentType,
			Pages:      filePages[i],
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.CreateFile(ctx, file); err != nil {
			return nil, fmt.Errorf("persist file %s: %w", f.Name, err)
		}
		job.Files = append(job.Files, file)
	}

	s.publish(ctx, notify.ShopRoom(job.ShopOwnerID.String()), "newPrintJob", newPrintJobEvent(job))

	return job, nil
}

func (s *service) UpdateStatus(ctx context.Context, jobID string, req UpdateStatusRequest) (*PrintJob, error) {
	job, err := s.repo.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	next := JobStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !next.Valid() {
		return nil, &ValidationError{Field: "status", Reason: "must be one of PENDING, PROCESSING, COMPLETED, CANCELLED"}
	}
	if !canTransition(job.Status, next) {
		return nil, fmt.Errorf("cannot move job from %s to %s: %w", job.Status, next, ErrInvalidTransition)
	}

	if next == StatusCompleted {
		// Wind down file access: replace each reference with a short-lived
		// URL instead of deleting outright, leaving a grace window for the
		// shop to hand over the output.
		for _, file := range job.Files {
			key := objectKey(job.ShopOwnerID, job.ID, file.FileName)
			fileURL, err := s.files.PresignURL(ctx, key, completedURLTTL)
			if err != nil {
				return nil, fmt.Errorf("wind down %s: %w", file.FileName, err)
			}
			if err := s.repo.UpdateFileURL(ctx, file.ID, fileURL); err != nil {
				return nil, fmt.Errorf("store wound-down url for %s: %w", file.FileName, err)
			}
			file.FileURL = fileURL
		}
	}

	if err := s.repo.UpdateStatus(ctx, job.ID, next); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	job.Status = next

	event := statusUpdateEvent(job)
	s.publish(ctx, notify.ShopRoom(job.ShopOwnerID.String()), "printJobStatusUpdate", event)
	s.publish(ctx, notify.JobRoom(job.ID.String()), "printJobStatusUpdate", event)

	return job, nil
}

func (s *service) ListShopJobs(ctx context.Context, shopOwnerID string, status string) ([]*PrintJob, error) {
	var filter JobStatus
	if status != "" {
		filter = JobStatus(strings.ToUpper(status))
		if !filter.Valid() {
			return nil, &ValidationError{Field: "status", Reason: "must be one of PENDING, PROCESSING, COMPLETED, CANCELLED"}
		}
	}

	jobs, err := s.repo.ListJobsByShop(ctx, shopOwnerID, filter)
	if err != nil {
		return nil, err
	}

	// Lazy renewal: references older than the staleness window get a fresh
	// URL before they reach the caller. A renewal failure keeps the old
	// reference rather than failing the read.
	cutoff := time.Now().Add(-urlStaleAfter)
	for _, job := range jobs {
		for _, file := range job.Files {
			if file.FileURL != "" && !file.UpdatedAt.Before(cutoff) {
				continue
			}
			key := objectKey(job.ShopOwnerID, job.ID, file.FileName)
			fileURL, err := s.files.PresignURL(ctx, key, uploadURLTTL)
			if err != nil {
				s.logger.Warn("renew file url",
					slog.String("file", file.FileName),
					slog.Any("error", err),
				)
				continue
			}
			if err := s.repo.UpdateFileURL(ctx, file.ID, fileURL); err != nil {
				s.logger.Warn("store renewed file url",
					slog.String("file", file.FileName),
					slog.Any("error", err),
				)
				continue
			}
			file.FileURL = fileURL
			file.UpdatedAt = time.Now().UTC()
		}
	}

	return jobs, nil
}

func (s *service) GetJobByToken(ctx context.Context, tokenNumber string) (*PrintJob, error) {
	return s.repo.GetJobByToken(ctx, tokenNumber)
}

// publish delivers a room event without letting a broadcast failure fail
// the owning operation.
func (s *service) publish(ctx context.Context, room, event string, payload any) {
	if err := s.events.Publish(ctx, room, event, payload); err != nil {
		s.logger.Warn("publish event",
			slog.String("event", event),
			slog.String("room", room),
			slog.Any("error", err),
		)
	}
}

func defaulted(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
