package model

import (
	"encoding/json"
	"time"
)

// Calculation is one saved calculator result: the inputs the user entered and
// the computed result, stored opaquely as JSON.
type Calculation struct {
	ID        string          `json:"id"`
	UserID    string          `json:"user_id"`
	Kind      string          `json:"kind"` // calculator identifier, e.g. "concrete_slab"
	Label     string          `json:"label"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result"`
	Total     float64         `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CalculationSummary is the lightweight entry kept in the local history
// store; never synchronized back to the database.
type CalculationSummary struct {
	ID      string    `json:"id"`
	Kind    string    `json:"kind"`
	Label   string    `json:"label"`
	Total   float64   `json:"total"`
	SavedAt time.Time `json:"saved_at"`
}
