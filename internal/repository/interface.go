package repository

import (
	"context"

	"github.com/obracalc/backend/internal/model"
)

// DB is the minimal liveness interface used by the health endpoint.
type DB interface {
	Ping(ctx context.Context) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
}

// MaterialPriceRepository persists per-user price overrides, keyed by
// (material_key, composition_index, user_id).
type MaterialPriceRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]*model.PriceOverride, error)
	Upsert(ctx context.Context, override *model.PriceOverride) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// UserSettingsRepository persists the one-row-per-user preference record.
type UserSettingsRepository interface {
	// GetByUserID returns the raw row with nullable fields, or ErrNotFound
	// when the user has never saved a preference.
	GetByUserID(ctx context.Context, userID string) (*model.SettingsRow, error)
	// Upsert writes only the non-nil fields of patch, creating the row if
	// needed, and stamps the server-side updated_at.
	Upsert(ctx context.Context, userID string, patch model.SettingsPatch) error
}

// CalculationRepository persists saved calculator results.
type CalculationRepository interface {
	Create(ctx context.Context, calc *model.Calculation) error
	GetByID(ctx context.Context, id string) (*model.Calculation, error)
	ListByUserID(ctx context.Context, userID string) ([]*model.Calculation, error)
	Delete(ctx context.Context, id string) error
}

// SharedCalculationRepository persists share records. Tokens are generated
// here, never by callers; Deactivate is scoped to the owning user, standing
// in for the row-level policy of the hosted store.
type SharedCalculationRepository interface {
	Create(ctx context.Context, share *model.SharedCalculation) error
	GetByToken(ctx context.Context, token string) (*model.SharedView, error)
	IncrementViewCount(ctx context.Context, token string) error
	ListActiveByUserID(ctx context.Context, userID string) ([]*model.SharedCalculation, error)
	Deactivate(ctx context.Context, id, userID string) error
}
