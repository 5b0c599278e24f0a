package printjob

import (
	"time"

	"github.com/google/uuid"
)

// NewPrintJobEvent is broadcast to the shop room when a job is submitted.
type NewPrintJobEvent struct {
	ID           uuid.UUID   `json:"id"`
	TokenNumber  string      `json:"tokenNumber"`
	CustomerName string      `json:"customerName"`
	TotalPages   int         `json:"totalPages"`
	TotalCost    float64     `json:"totalCost"`
	Status       JobStatus   `json:"status"`
	Files        []EventFile `json:"files"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// EventFile is the per-attachment slice of a job event.
type EventFile struct {
	ID       uuid.UUID `json:"id"`
	FileName string    `json:"fileName"`
	FileURL  string    `json:"fileUrl"`
}

// StatusUpdateEvent is broadcast to the shop room and the job's own room
// on every status change.
type StatusUpdateEvent struct {
	ID          uuid.UUID `json:"id"`
	Status      JobStatus `json:"status"`
	TokenNumber string    `json:"tokenNumber"`
}

func newPrintJobEvent(job *PrintJob) NewPrintJobEvent {
	customerName := job.CustomerName
	if customerName == "" {
		customerName = "Anonymous"
	}
	files := make([]EventFile, 0, len(job.Files))
	for _, f := range job.Files {
		files = append(files, EventFile{ID: f.ID, FileName: f.FileName, FileURL: f.FileURL})
	}
	return NewPrintJobEvent{
		ID:           job.ID,
		TokenNumber:  job.TokenNumber,
		CustomerName: customerName,
		TotalPages:   job.TotalPages,
		TotalCost:    job.TotalCost,
		Status:       job.Status,
		Files:        files,
		CreatedAt:    job.CreatedAt,
	}
}

func statusUpdateEvent(job *PrintJob) StatusUpdateEvent {
	return StatusUpdateEvent{
		ID:          job.ID,
		Status:      job.Status,
		TokenNumber: job.TokenNumber,
	}
}
