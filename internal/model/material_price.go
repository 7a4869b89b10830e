package model

import (
	"fmt"
	"time"
)

// PriceItem is one displayable entry of the effective price list: catalog
// metadata plus the currently effective unit price.
type PriceItem struct {
	MaterialKey      string  `json:"material_key"`
	CompositionIndex int     `json:"composition_index"`
	CompositionName  string  `json:"composition_name"`
	Unit             string  `json:"unit"`
	UnitPrice        float64 `json:"unit_price"`
}

// Key returns the derived map key for this item ("materialKey_index").
func (i *PriceItem) Key() string {
	return PriceKey(i.MaterialKey, i.CompositionIndex)
}

// PriceKey builds the derived key used by the effective price map.
func PriceKey(materialKey string, compositionIndex int) string {
	return fmt.Sprintf("%s_%d", materialKey, compositionIndex)
}

// PriceOverride is a user-specific unit price persisted in material_prices,
// keyed by (material_key, composition_index, user_id).
type PriceOverride struct {
	ID               string    `json:"id"`
	MaterialKey      string    `json:"material_key"`
	CompositionIndex int       `json:"composition_index"`
	CompositionName  string    `json:"composition_name"`
	Unit             string    `json:"unit"`
	UnitPrice        float64   `json:"unit_price"`
	UserID           string    `json:"user_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// PriceBook is the effective price snapshot handed to callers: the derived-key
// map plus the ordered item list for display. It is rebuilt in full on load,
// never recomputed reactively.
type PriceBook struct {
	Prices map[string]float64 `json:"prices"`
	Items  []*PriceItem       `json:"items"`
}
