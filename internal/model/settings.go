package model

import "time"

// Theme values accepted for UserSettings.Theme.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

// ValidTheme reports whether s is a recognized theme value.
func ValidTheme(s string) bool {
	return s == ThemeLight || s == ThemeDark || s == ThemeSystem
}

// UserSettings is the effective per-user preference record after merging the
// persisted row with defaults field by field.
type UserSettings struct {
	UserID            string    `json:"user_id,omitempty"`
	Theme             string    `json:"theme"`
	DefaultBDI        float64   `json:"default_bdi"`
	DefaultMargin     float64   `json:"default_margin"`
	MasonDailyRate    float64   `json:"mason_daily_rate"`
	HelperDailyRate   float64   `json:"helper_daily_rate"`
	CurrencyCode      string    `json:"currency_code"`
	ShowCostBreakdown bool      `json:"show_cost_breakdown"`
	UpdatedAt         time.Time `json:"updated_at,omitempty"`
}

// DefaultSettings returns the system defaults used for any field that has no
// persisted value.
func DefaultSettings() UserSettings {
	return UserSettings{
		Theme:             ThemeLight,
		DefaultBDI:        28.0,
		DefaultMargin:     15.0,
		MasonDailyRate:    180.0,
		HelperDailyRate:   120.0,
		CurrencyCode:      "BRL",
		ShowCostBreakdown: true,
	}
}

// SettingsRow is the raw persisted user_settings row. Every preference column
// is nullable; nil means "use the default".
type SettingsRow struct {
	UserID            string
	Theme             *string
	DefaultBDI        *float64
	DefaultMargin     *float64
	MasonDailyRate    *float64
	HelperDailyRate   *float64
	CurrencyCode      *string
	ShowCostBreakdown *bool
	UpdatedAt         time.Time
}

// SettingsPatch lists only the fields an update changes. Nil fields are left
// untouched both locally and in the persisted row.
type SettingsPatch struct {
	Theme             *string  `json:"theme,omitempty"`
	DefaultBDI        *float64 `json:"default_bdi,omitempty"`
	DefaultMargin     *float64 `json:"default_margin,omitempty"`
	MasonDailyRate    *float64 `json:"mason_daily_rate,omitempty"`
	HelperDailyRate   *float64 `json:"helper_daily_rate,omitempty"`
	CurrencyCode      *string  `json:"currency_code,omitempty"`
	ShowCostBreakdown *bool    `json:"show_cost_breakdown,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p SettingsPatch) IsZero() bool {
	return p.Theme == nil && p.DefaultBDI == nil && p.DefaultMargin == nil &&
		p.MasonDailyRate == nil && p.HelperDailyRate == nil &&
		p.CurrencyCode == nil && p.ShowCostBreakdown == nil
}

// Apply overlays the patch onto s, field by field.
func (p SettingsPatch) Apply(s *UserSettings) {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.DefaultBDI != nil {
		s.DefaultBDI = *p.DefaultBDI
	}
	if p.DefaultMargin != nil {
		s.DefaultMargin = *p.DefaultMargin
	}
	if p.MasonDailyRate != nil {
		s.MasonDailyRate = *p.MasonDailyRate
	}
	if p.HelperDailyRate != nil {
		s.HelperDailyRate = *p.HelperDailyRate
	}
	if p.CurrencyCode != nil {
		s.CurrencyCode = *p.CurrencyCode
	}
	if p.ShowCostBreakdown != nil {
		s.ShowCostBreakdown = *p.ShowCostBreakdown
	}
}
