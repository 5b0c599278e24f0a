package admin

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/printq/printq-backend/internal/modules/user"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL admin repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) ListUsers(ctx context.Context) ([]*user.User, error) {
	query := `
		SELECT id, email, password_hash, name, phone_number, COALESCE(address,''), role, is_active, created_at, updated_at
		FROM users
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u := &user.User{}
		err := rows.Scan(
			&u.ID,
			&u.Email,
			&u.PasswordHash,
			&u.Name,
			&u.PhoneNumber,
			&u.Address,
			&u.Role,
			&u.IsActive,
			&u.CreatedAt,
			&u.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *postgresRepository) SetUserActive(ctx context.Context, id uuid.UUID, active bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2
	`, active, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *postgresRepository) CountActiveJobs(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM print_jobs j
		JOIN shop_owners s ON s.id = j.shop_owner_id
		WHERE s.user_id = $1 AND j.status NOT IN ('COMPLETED', 'CANCELLED')
	`, userID).Scan(&count)
	return count, err
}

func (r *postgresRepository) ListShopObjectKeys(ctx context.Context, userID uuid.UUID) ([]string, error) {
	var keys []string

	var shopID uuid.UUID
	err := r.db.QueryRowContext(ctx, `
		SELECT id FROM shop_owners WHERE user_id = $1
	`, userID).Scan(&shopID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	keys = append(keys, fmt.Sprintf("shops/%s/.folder", shopID))

	rows, err := r.db.QueryContext(ctx, `
		SELECT 'shops/' || j.shop_owner_id || '/' || j.id || '_' || f.file_name
		FROM print_job_files f
		JOIN print_jobs j ON j.id = f.print_job_id
		WHERE j.shop_owner_id = $1
	`, shopID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *postgresRepository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	steps := []string{
		`DELETE FROM print_job_files WHERE print_job_id IN (
			SELECT j.id FROM print_jobs j
			JOIN shop_owners s ON s.id = j.shop_owner_id
			WHERE s.user_id = $1)`,
		`DELETE FROM print_jobs WHERE shop_owner_id IN (
			SELECT id FROM shop_owners WHERE user_id = $1)`,
		`DELETE FROM pricing_configs WHERE shop_owner_id IN (
			SELECT id FROM shop_owners WHERE user_id = $1)`,
		`DELETE FROM shop_owners WHERE user_id = $1`,
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step, id); err != nil {
			return fmt.Errorf("delete shop data: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return user.ErrNotFound
	}

	return tx.Commit()
}
