package shop

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/printq/printq-backend/internal/modules/user"
)

type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository creates a new PostgreSQL shop repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const shopColumns = `s.id, s.user_id, s.shop_name, COALESCE(s.qr_code_url,''), s.created_at, s.updated_at,
		u.name, u.email, u.phone_number`

func (r *postgresRepository) CreateWithOwner(ctx context.Context, u *user.User, s *Shop) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, name, phone_number, address, role, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.PhoneNumber, u.Address, u.Role, u.IsActive)
	if err != nil {
		return fmt.Errorf("insert owner: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO shop_owners (id, user_id, shop_name)
		VALUES ($1, $2, $3)
	`, s.ID, s.UserID, s.ShopName)
	if err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}

	return tx.Commit()
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Shop, error) {
	query := `
		SELECT ` + shopColumns + `
		FROM shop_owners s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1
	`
	s, err := scanShop(r.db.QueryRowContext(ctx, query, id).Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return s, err
}

func (r *postgresRepository) List(ctx context.Context) ([]*Shop, error) {
	query := `
		SELECT ` + shopColumns + `
		FROM shop_owners s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shops []*Shop
	for rows.Next() {
		s, err := scanShop(rows.Scan)
		if err != nil {
			return nil, err
		}
		shops = append(shops, s)
	}
	return shops, rows.Err()
}

func (r *postgresRepository) UpdateQRCode(ctx context.Context, id uuid.UUID, qrCodeURL string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE shop_owners SET qr_code_url = $1, updated_at = NOW() WHERE id = $2
	`, qrCodeURL, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func scanShop(scan func(...interface{}) error) (*Shop, error) {
	s := &Shop{}
	err := scan(
		&s.ID,
		&s.UserID,
		&s.ShopName,
		&s.QRCodeURL,
		&s.CreatedAt,
		&s.UpdatedAt,
		&s.OwnerName,
		&s.Email,
		&s.PhoneNumber,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}
