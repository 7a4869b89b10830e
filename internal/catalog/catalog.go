// Package catalog holds the static material composition table: every
// composition the calculators price, with its default unit price. The
// catalog is the source of truth for defaults and is never mutated at
// runtime; user overrides live in the material_prices table.
package catalog

// Composition identifies one priceable material variant by
// (MaterialKey, CompositionIndex).
type Composition struct {
	MaterialKey      string
	CompositionIndex int
	Name             string
	Unit             string
	DefaultUnitPrice float64
}

// Default unit prices are reference market values in BRL.
var compositions = []Composition{
	{"concrete", 0, "Concrete mix 1:2:3 (fck 25 MPa)", "m³", 420.00},
	{"concrete", 1, "Concrete mix 1:2.5:3.5 (fck 20 MPa)", "m³", 385.00},
	{"concrete", 2, "Concrete mix 1:3:4 (fck 15 MPa)", "m³", 350.00},
	{"mortar", 0, "Laying mortar 1:2:8", "m³", 310.00},
	{"mortar", 1, "Coating mortar 1:2:6", "m³", 335.00},
	{"mortar", 2, "Finishing mortar 1:3", "m³", 360.00},
	{"masonry", 0, "Ceramic block 9x19x19 cm", "un", 1.85},
	{"masonry", 1, "Ceramic block 14x19x19 cm", "un", 2.40},
	{"masonry", 2, "Concrete block 14x19x39 cm", "un", 3.95},
	{"steel", 0, "Rebar CA-50 8.0 mm", "kg", 8.20},
	{"steel", 1, "Rebar CA-50 10.0 mm", "kg", 7.90},
	{"steel", 2, "Rebar CA-60 5.0 mm", "kg", 9.10},
	{"paint", 0, "Acrylic latex paint", "L", 24.50},
	{"paint", 1, "PVA latex paint", "L", 16.80},
	{"paint", 2, "Synthetic enamel", "L", 38.00},
	{"flooring", 0, "Ceramic tile 45x45 cm", "m²", 32.90},
	{"flooring", 1, "Porcelain tile 60x60 cm", "m²", 74.50},
	{"flooring", 2, "Cement screed", "m²", 21.00},
}

// Compositions returns the full catalog in display order. The returned slice
// is a copy; callers may not mutate the catalog.
func Compositions() []Composition {
	out := make([]Composition, len(compositions))
	copy(out, compositions)
	return out
}

// Find returns the composition for (materialKey, compositionIndex), if any.
func Find(materialKey string, compositionIndex int) (Composition, bool) {
	for _, c := range compositions {
		if c.MaterialKey == materialKey && c.CompositionIndex == compositionIndex {
			return c, true
		}
	}
	return Composition{}, false
}

// Len returns the number of catalog entries.
func Len() int {
	return len(compositions)
}
