package service

import (
	"context"
	"errors"
	"sync"

	"github.com/obracalc/backend/internal/model"
	"github.com/obracalc/backend/internal/repository"
)

// ErrInvalidTheme is returned when an update carries an unrecognized theme value.
var ErrInvalidTheme = errors.New("invalid theme")

// Hard-coded market reference values applied by ResetMarketDefaults.
const (
	MarketBDI             = 22.5
	MarketMargin          = 20.0
	MarketMasonDailyRate  = 200.0
	MarketHelperDailyRate = 140.0
)

// ThemeResolver returns the runtime's current system preference
// ("light" or "dark"). Consulted when a user selects the "system" theme,
// at application time only.
type ThemeResolver func() string

// ThemeApplied is invoked after a successful update that changed the theme,
// with the resolved concrete theme.
type ThemeApplied func(resolvedTheme string)

// SettingsService merges the persisted per-user preference row with defaults
// field by field and applies partial updates optimistically, rolling the
// in-memory state back when the write fails.
type SettingsService interface {
	Load(ctx context.Context, userID string) (model.UserSettings, error)
	// Update applies patch locally, persists only the changed fields, and on
	// failure restores the pre-update state and returns the error.
	Update(ctx context.Context, userID string, patch model.SettingsPatch) (model.UserSettings, error)
	// ResetMarketDefaults sets the engineering parameters to the market
	// constants via the Update contract.
	ResetMarketDefaults(ctx context.Context, userID string) (model.UserSettings, error)
}

// SettingsServiceImpl is the SettingsService implementation.
type SettingsServiceImpl struct {
	repo          repository.UserSettingsRepository
	resolveSystem ThemeResolver
	onThemeChange ThemeApplied

	mu     sync.Mutex
	states map[string]*model.UserSettings
}

// NewSettingsService creates a SettingsServiceImpl. resolveSystem and
// onThemeChange may be nil; a nil resolver treats "system" as light.
func NewSettingsService(repo repository.UserSettingsRepository, resolveSystem ThemeResolver, onThemeChange ThemeApplied) *SettingsServiceImpl {
	return &SettingsServiceImpl{
		repo:          repo,
		resolveSystem: resolveSystem,
		onThemeChange: onThemeChange,
		states:        make(map[string]*model.UserSettings),
	}
}

// mergeRow overlays the persisted row onto the defaults, field by field.
// Null fields keep the default; an unrecognized theme falls back to it.
func mergeRow(row *model.SettingsRow) model.UserSettings {
	s := model.DefaultSettings()
	s.UserID = row.UserID
	s.UpdatedAt = row.UpdatedAt
	if row.Theme != nil && model.ValidTheme(*row.Theme) {
		s.Theme = *row.Theme
	}
	if row.DefaultBDI != nil {
		s.DefaultBDI = *row.DefaultBDI
	}
	if row.DefaultMargin != nil {
		s.DefaultMargin = *row.DefaultMargin
	}
	if row.MasonDailyRate != nil {
		s.MasonDailyRate = *row.MasonDailyRate
	}
	if row.HelperDailyRate != nil {
		s.HelperDailyRate = *row.HelperDailyRate
	}
	if row.CurrencyCode != nil {
		s.CurrencyCode = *row.CurrencyCode
	}
	if row.ShowCostBreakdown != nil {
		s.ShowCostBreakdown = *row.ShowCostBreakdown
	}
	return s
}

// Load implements SettingsService. It refetches the row and replaces any
// previous snapshot for the user.
func (s *SettingsServiceImpl) Load(ctx context.Context, userID string) (model.UserSettings, error) {
	if userID == "" {
		return model.DefaultSettings(), nil
	}

	row, err := s.repo.GetByUserID(ctx, userID)
	var settings model.UserSettings
	switch {
	case errors.Is(err, repository.ErrNotFound):
		settings = model.DefaultSettings()
		settings.UserID = userID
	case err != nil:
		return model.UserSettings{}, err
	default:
		settings = mergeRow(row)
	}

	s.mu.Lock()
	cp := settings
	s.states[userID] = &cp
	s.mu.Unlock()
	return settings, nil
}

// stateLocked returns the user's snapshot, fetching it on first access.
// Caller holds s.mu.
func (s *SettingsServiceImpl) stateLocked(ctx context.Context, userID string) (*model.UserSettings, error) {
	if st, ok := s.states[userID]; ok {
		return st, nil
	}
	row, err := s.repo.GetByUserID(ctx, userID)
	var settings model.UserSettings
	switch {
	case errors.Is(err, repository.ErrNotFound):
		settings = model.DefaultSettings()
		settings.UserID = userID
	case err != nil:
		return nil, err
	default:
		settings = mergeRow(row)
	}
	cp := settings
	s.states[userID] = &cp
	return &cp, nil
}

// Update implements SettingsService.
func (s *SettingsServiceImpl) Update(ctx context.Context, userID string, patch model.SettingsPatch) (model.UserSettings, error) {
	if userID == "" {
		return model.UserSettings{}, ErrUnauthenticated
	}
	if patch.Theme != nil && !model.ValidTheme(*patch.Theme) {
		return model.UserSettings{}, ErrInvalidTheme
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.stateLocked(ctx, userID)
	if err != nil {
		return model.UserSettings{}, err
	}

	if patch.IsZero() {
		return *state, nil
	}

	prevTheme := state.Theme
	err = commitOptimistic(state,
		func(st *model.UserSettings) { patch.Apply(st) },
		func() error { return s.repo.Upsert(ctx, userID, patch) },
	)
	if err != nil {
		// state already rolled back to the pre-update snapshot
		return *state, err
	}

	if patch.Theme != nil && state.Theme != prevTheme {
		s.applyTheme(state.Theme)
	}
	return *state, nil
}

// applyTheme resolves "system" to the runtime preference at application time
// and notifies the hook.
func (s *SettingsServiceImpl) applyTheme(theme string) {
	resolved := theme
	if theme == model.ThemeSystem {
		resolved = model.ThemeLight
		if s.resolveSystem != nil {
			resolved = s.resolveSystem()
		}
	}
	if s.onThemeChange != nil {
		s.onThemeChange(resolved)
	}
}

// ResetMarketDefaults implements SettingsService.
func (s *SettingsServiceImpl) ResetMarketDefaults(ctx context.Context, userID string) (model.UserSettings, error) {
	bdi := MarketBDI
	margin := MarketMargin
	mason := MarketMasonDailyRate
	helper := MarketHelperDailyRate
	return s.Update(ctx, userID, model.SettingsPatch{
		DefaultBDI:      &bdi,
		DefaultMargin:   &margin,
		MasonDailyRate:  &mason,
		HelperDailyRate: &helper,
	})
}
