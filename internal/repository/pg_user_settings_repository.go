package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/obracalc/backend/internal/model"
)

// PgUserSettingsRepository is the PostgreSQL implementation of
// UserSettingsRepository.
type PgUserSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewPgUserSettingsRepository creates a PgUserSettingsRepository.
func NewPgUserSettingsRepository(pool *pgxpool.Pool) *PgUserSettingsRepository {
	return &PgUserSettingsRepository{pool: pool}
}

// GetByUserID returns the raw settings row. Columns left NULL come back as
// nil pointers so the service can merge them against defaults.
func (r *PgUserSettingsRepository) GetByUserID(ctx context.Context, userID string) (*model.SettingsRow, error) {
	var row model.SettingsRow
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, theme, default_bdi, default_margin, mason_daily_rate, helper_daily_rate, currency_code, show_cost_breakdown, updated_at
		 FROM user_settings WHERE user_id = $1`,
		userID,
	).Scan(&row.UserID, &row.Theme, &row.DefaultBDI, &row.DefaultMargin, &row.MasonDailyRate, &row.HelperDailyRate, &row.CurrencyCode, &row.ShowCostBreakdown, &row.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert writes only the fields present in patch. Nil patch fields arrive as
// SQL NULL and the COALESCE keeps whatever the row already holds, so a
// partial update never clobbers other fields. updated_at is stamped
// server-side on every write.
func (r *PgUserSettingsRepository) Upsert(ctx context.Context, userID string, patch model.SettingsPatch) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_settings (user_id, theme, default_bdi, default_margin, mason_daily_rate, helper_daily_rate, currency_code, show_cost_breakdown, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		   theme               = COALESCE(EXCLUDED.theme, user_settings.theme),
		   default_bdi         = COALESCE(EXCLUDED.default_bdi, user_settings.default_bdi),
		   default_margin      = COALESCE(EXCLUDED.default_margin, user_settings.default_margin),
		   mason_daily_rate    = COALESCE(EXCLUDED.mason_daily_rate, user_settings.mason_daily_rate),
		   helper_daily_rate   = COALESCE(EXCLUDED.helper_daily_rate, user_settings.helper_daily_rate),
		   currency_code       = COALESCE(EXCLUDED.currency_code, user_settings.currency_code),
		   show_cost_breakdown = COALESCE(EXCLUDED.show_cost_breakdown, user_settings.show_cost_breakdown),
		   updated_at          = NOW()`,
		userID, patch.Theme, patch.DefaultBDI, patch.DefaultMargin, patch.MasonDailyRate, patch.HelperDailyRate, patch.CurrencyCode, patch.ShowCostBreakdown,
	)
	return err
}
