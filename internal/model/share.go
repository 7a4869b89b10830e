package model

import "time"

// SharedCalculation is one share record. The token is generated at the
// storage layer, never supplied by the caller. Deactivation flips IsActive;
// rows are never hard-deleted.
type SharedCalculation struct {
	ID            string     `json:"id"`
	CalculationID string     `json:"calculation_id"`
	UserID        string     `json:"user_id"`
	ShareToken    string     `json:"share_token"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"` // nil = never expires
	IsActive      bool       `json:"is_active"`
	ViewCount     int        `json:"view_count"`
	CreatedAt     time.Time  `json:"created_at"`

	// Joined calculation metadata, set by list queries only.
	CalculationLabel string  `json:"calculation_label,omitempty"`
	CalculationKind  string  `json:"calculation_kind,omitempty"`
	CalculationTotal float64 `json:"calculation_total,omitempty"`
}

// ShareLink pairs a freshly created share record with its public URL.
type ShareLink struct {
	Share *SharedCalculation `json:"share"`
	URL   string             `json:"url"`
}

// SharedView is the snapshot returned when a token is resolved.
type SharedView struct {
	ShareToken  string       `json:"share_token"`
	ViewCount   int          `json:"view_count"`
	Calculation *Calculation `json:"calculation"`
}
