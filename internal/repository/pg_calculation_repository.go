package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/obracalc/backend/internal/model"
)

// PgCalculationRepository is the PostgreSQL implementation of
// CalculationRepository.
type PgCalculationRepository struct {
	pool *pgxpool.Pool
}

// NewPgCalculationRepository creates a PgCalculationRepository.
func NewPgCalculationRepository(pool *pgxpool.Pool) *PgCalculationRepository {
	return &PgCalculationRepository{pool: pool}
}

const calcSelectCols = `id, user_id, kind, label, input, result, total, created_at, updated_at`

// Create inserts a calculation and fills in id and timestamps.
func (r *PgCalculationRepository) Create(ctx context.Context, c *model.Calculation) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO calculations (user_id, kind, label, input, result, total)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		c.UserID, c.Kind, c.Label, c.Input, c.Result, c.Total,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a calculation by id.
func (r *PgCalculationRepository) GetByID(ctx context.Context, id string) (*model.Calculation, error) {
	var c model.Calculation
	err := r.pool.QueryRow(ctx,
		`SELECT `+calcSelectCols+` FROM calculations WHERE id = $1`, id,
	).Scan(&c.ID, &c.UserID, &c.Kind, &c.Label, &c.Input, &c.Result, &c.Total, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByUserID returns the user's calculations, newest first.
func (r *PgCalculationRepository) ListByUserID(ctx context.Context, userID string) ([]*model.Calculation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+calcSelectCols+` FROM calculations WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var calcs []*model.Calculation
	for rows.Next() {
		var c model.Calculation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Kind, &c.Label, &c.Input, &c.Result, &c.Total, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		calcs = append(calcs, &c)
	}
	return calcs, rows.Err()
}

// Delete removes a calculation.
func (r *PgCalculationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM calculations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
