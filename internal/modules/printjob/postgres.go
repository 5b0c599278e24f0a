package printjob

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL print job repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

const jobColumns = `id,shop_owner_id,token_number,customer_name,customer_phone,customer_email,
	       specific_pages,noof_copies,print_type,paper_type,print_side,
	       total_pages,COALESCE(total_cost,0),status,created_at,updated_at`

func (r *postgresRepo) CreateJob(ctx context.Context, job *PrintJob) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO print_jobs
		  (id, shop_owner_id, token_number, customer_name, customer_phone, customer_email,
		   specific_pages, noof_copies, print_type, paper_type, print_side,
		   total_pages, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
		job.ID, job.ShopOwnerID, job.TokenNumber, job.CustomerName, job.CustomerPhone, job.CustomerEmail,
		job.SpecificPages, job.Copies, job.PrintType, job.PaperType, job.PrintSide,
		job.TotalPages, job.Status, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert print job: %w", err)
	}
	return nil
}

func (r *postgresRepo) UpdateTotalCost(ctx context.Context, jobID uuid.UUID, totalCost float64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE print_jobs SET total_cost=$1, updated_at=$2 WHERE id=$3`,
		totalCost, time.Now().UTC(), jobID)
	return err
}

func (r *postgresRepo) CreateFile(ctx context.Context, file *PrintJobFile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO print_job_files
		  (id, print_job_id, file_name, file_url, file_type, pages, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		file.ID, file.PrintJobID, file.FileName, file.FileURL, file.FileType,
		file.Pages, file.CreatedAt, file.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert print job file: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetJobByID(ctx context.Context, id string) (*PrintJob, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	job, err := scanJob(r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM print_jobs WHERE id=$1`, uid).Scan)
	if err != nil {
		return nil, err
	}
	job.Files, err = r.listFiles(ctx, job.ID)
	return job, err
}

func (r *postgresRepo) GetJobByToken(ctx context.Context, tokenNumber string) (*PrintJob, error) {
	return scanJob(r.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM print_jobs WHERE token_number=$1`, tokenNumber).Scan)
}

func (r *postgresRepo) ListJobsByShop(ctx context.Context, shopOwnerID string, status JobStatus) ([]*PrintJob, error) {
	query := `SELECT ` + jobColumns + ` FROM print_jobs WHERE shop_owner_id=$1`
	args := []interface{}{shopOwnerID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []*PrintJob
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, job := range jobs {
		if job.Files, err = r.listFiles(ctx, job.ID); err != nil {
			return nil, err
		}
	}
	return jobs, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, jobID uuid.UUID, status JobStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE print_jobs SET status=$1, updated_at=$2 WHERE id=$3`,
		status, time.Now().UTC(), jobID)
	return err
}

func (r *postgresRepo) UpdateFileURL(ctx context.Context, fileID uuid.UUID, fileURL string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE print_job_files SET file_url=$1, updated_at=$2 WHERE id=$3`,
		fileURL, time.Now().UTC(), fileID)
	return err
}

// ── helpers ──────────────────────────────────────────────────────────────────

func scanJob(scan func(...interface{}) error) (*PrintJob, error) {
	job := &PrintJob{}
	err := scan(
		&job.ID, &job.ShopOwnerID, &job.TokenNumber, &job.CustomerName, &job.CustomerPhone, &job.CustomerEmail,
		&job.SpecificPages, &job.Copies, &job.PrintType, &job.PaperType, &job.PrintSide,
		&job.TotalPages, &job.TotalCost, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (r *postgresRepo) listFiles(ctx context.Context, jobID uuid.UUID) ([]*PrintJobFile, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, print_job_id, file_name, file_url, file_type, pages, created_at, updated_at
		FROM print_job_files WHERE print_job_id=$1 ORDER BY created_at ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*PrintJobFile
	for rows.Next() {
		file := &PrintJobFile{}
		if err := rows.Scan(&file.ID, &file.PrintJobID, &file.FileName, &file.FileURL,
			&file.FileType, &file.Pages, &file.CreatedAt, &file.UpdatedAt); err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}
