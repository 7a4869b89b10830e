package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/obracalc/backend/internal/model"
)

// PgSharedCalculationRepository is the PostgreSQL implementation of
// SharedCalculationRepository.
type PgSharedCalculationRepository struct {
	pool *pgxpool.Pool
}

// NewPgSharedCalculationRepository creates a PgSharedCalculationRepository.
func NewPgSharedCalculationRepository(pool *pgxpool.Pool) *PgSharedCalculationRepository {
	return &PgSharedCalculationRepository{pool: pool}
}

// Create inserts a share row with a freshly generated opaque token and fills
// in the generated fields. Any ShareToken the caller set is ignored.
func (r *PgSharedCalculationRepository) Create(ctx context.Context, s *model.SharedCalculation) error {
	s.ShareToken = uuid.NewString()
	return r.pool.QueryRow(ctx,
		`INSERT INTO shared_calculations (calculation_id, user_id, share_token, expires_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, is_active, view_count, created_at`,
		s.CalculationID, s.UserID, s.ShareToken, s.ExpiresAt,
	).Scan(&s.ID, &s.IsActive, &s.ViewCount, &s.CreatedAt)
}

// GetByToken resolves an active, unexpired token to its calculation
// snapshot. Expiry is enforced here, in the query, not by callers.
func (r *PgSharedCalculationRepository) GetByToken(ctx context.Context, token string) (*model.SharedView, error) {
	var v model.SharedView
	var c model.Calculation
	err := r.pool.QueryRow(ctx,
		`SELECT s.share_token, s.view_count,
		        c.id, c.user_id, c.kind, c.label, c.input, c.result, c.total, c.created_at, c.updated_at
		 FROM shared_calculations s
		 JOIN calculations c ON c.id = s.calculation_id
		 WHERE s.share_token = $1
		   AND s.is_active
		   AND (s.expires_at IS NULL OR s.expires_at > NOW())`,
		token,
	).Scan(&v.ShareToken, &v.ViewCount,
		&c.ID, &c.UserID, &c.Kind, &c.Label, &c.Input, &c.Result, &c.Total, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.Calculation = &c
	return &v, nil
}

// IncrementViewCount bumps the counter for a token by one.
func (r *PgSharedCalculationRepository) IncrementViewCount(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE shared_calculations SET view_count = view_count + 1 WHERE share_token = $1`,
		token,
	)
	return err
}

// ListActiveByUserID returns the caller's active share rows with joined
// calculation metadata, newest first.
func (r *PgSharedCalculationRepository) ListActiveByUserID(ctx context.Context, userID string) ([]*model.SharedCalculation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.calculation_id, s.user_id, s.share_token, s.expires_at, s.is_active, s.view_count, s.created_at,
		        c.label, c.kind, c.total
		 FROM shared_calculations s
		 JOIN calculations c ON c.id = s.calculation_id
		 WHERE s.user_id = $1 AND s.is_active
		 ORDER BY s.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shares []*model.SharedCalculation
	for rows.Next() {
		var s model.SharedCalculation
		if err := rows.Scan(&s.ID, &s.CalculationID, &s.UserID, &s.ShareToken, &s.ExpiresAt, &s.IsActive, &s.ViewCount, &s.CreatedAt,
			&s.CalculationLabel, &s.CalculationKind, &s.CalculationTotal); err != nil {
			return nil, err
		}
		shares = append(shares, &s)
	}
	return shares, rows.Err()
}

// Deactivate soft-deletes a share row. The UPDATE is scoped to the owning
// user, so a non-owner gets ErrNotFound rather than someone else's row.
func (r *PgSharedCalculationRepository) Deactivate(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE shared_calculations SET is_active = FALSE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
