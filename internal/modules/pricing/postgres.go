package pricing

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
)

type postgresRepo struct{ db *sql.DB }

// NewPostgresRepository creates a new PostgreSQL pricing repository.
func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, c *PricingConfig) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pricing_configs
		  (id, shop_owner_id, paper_type, print_type, single_sided, double_sided, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.ShopOwnerID, c.PaperType, c.PrintType, c.SingleSided, c.DoubleSided, c.CreatedAt, c.UpdatedAt)
	return err
}

func scanConfig(scan func(...interface{}) error) (*PricingConfig, error) {
	c := &PricingConfig{}
	err := scan(&c.ID, &c.ShopOwnerID, &c.PaperType, &c.PrintType,
		&c.SingleSided, &c.DoubleSided, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*PricingConfig, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	row := r.db.QueryRowContext(ctx, `
		SELECT id,shop_owner_id,paper_type,print_type,single_sided,double_sided,created_at,updated_at
		FROM pricing_configs WHERE id=$1`, uid)
	c, err := scanConfig(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

func (r *postgresRepo) GetByMedium(ctx context.Context, shopOwnerID uuid.UUID, paper PaperType, print PrintType) (*PricingConfig, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id,shop_owner_id,paper_type,print_type,single_sided,double_sided,created_at,updated_at
		FROM pricing_configs WHERE shop_owner_id=$1 AND paper_type=$2 AND print_type=$3`,
		shopOwnerID, paper, print)
	c, err := scanConfig(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfigNotFound
	}
	return c, err
}

func (r *postgresRepo) ListByShop(ctx context.Context, shopOwnerID string) ([]*PricingConfig, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id,shop_owner_id,paper_type,print_type,single_sided,double_sided,created_at,updated_at
		FROM pricing_configs WHERE shop_owner_id=$1
		ORDER BY paper_type ASC, print_type ASC`, shopOwnerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []*PricingConfig
	for rows.Next() {
		c, err := scanConfig(rows.Scan)
		if err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func (r *postgresRepo) HasDuplicate(ctx context.Context, shopOwnerID uuid.UUID, paper PaperType, print PrintType, excludeID uuid.UUID) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM pricing_configs
		WHERE shop_owner_id=$1 AND paper_type=$2 AND print_type=$3 AND id<>$4`,
		shopOwnerID, paper, print, excludeID).Scan(&count)
	return count > 0, err
}

func (r *postgresRepo) Update(ctx context.Context, c *PricingConfig) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE pricing_configs
		SET paper_type=$1, print_type=$2, single_sided=$3, double_sided=$4, updated_at=$5
		WHERE id=$6`,
		c.PaperType, c.PrintType, c.SingleSided, c.DoubleSided, c.UpdatedAt, c.ID)
	return err
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM pricing_configs WHERE id=$1`, uid)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
