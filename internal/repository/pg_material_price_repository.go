package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/obracalc/backend/internal/model"
)

// PgMaterialPriceRepository is the PostgreSQL implementation of
// MaterialPriceRepository.
type PgMaterialPriceRepository struct {
	pool *pgxpool.Pool
}

// NewPgMaterialPriceRepository creates a PgMaterialPriceRepository.
func NewPgMaterialPriceRepository(pool *pgxpool.Pool) *PgMaterialPriceRepository {
	return &PgMaterialPriceRepository{pool: pool}
}

// ListByUserID returns every override row for the user.
func (r *PgMaterialPriceRepository) ListByUserID(ctx context.Context, userID string) ([]*model.PriceOverride, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, material_key, composition_index, composition_name, unit, unit_price, user_id, created_at, updated_at
		 FROM material_prices WHERE user_id = $1
		 ORDER BY material_key, composition_index`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []*model.PriceOverride
	for rows.Next() {
		var o model.PriceOverride
		if err := rows.Scan(&o.ID, &o.MaterialKey, &o.CompositionIndex, &o.CompositionName, &o.Unit, &o.UnitPrice, &o.UserID, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		overrides = append(overrides, &o)
	}
	return overrides, rows.Err()
}

// Upsert inserts or updates one override row on its composite key.
// Last write wins; there is no version precondition.
func (r *PgMaterialPriceRepository) Upsert(ctx context.Context, o *model.PriceOverride) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO material_prices (material_key, composition_index, composition_name, unit, unit_price, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (material_key, composition_index, user_id)
		 DO UPDATE SET unit_price = EXCLUDED.unit_price, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		o.MaterialKey, o.CompositionIndex, o.CompositionName, o.Unit, o.UnitPrice, o.UserID,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

// DeleteByUserID removes every override row for the user in one statement.
func (r *PgMaterialPriceRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM material_prices WHERE user_id = $1`, userID)
	return err
}
