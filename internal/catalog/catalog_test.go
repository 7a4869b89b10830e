package catalog

import "testing"

func TestCompositions_KeysAreUnique(t *testing.T) {
	seen := map[[2]any]bool{}
	for _, c := range Compositions() {
		k := [2]any{c.MaterialKey, c.CompositionIndex}
		if seen[k] {
			t.Errorf("duplicate catalog key %s/%d", c.MaterialKey, c.CompositionIndex)
		}
		seen[k] = true
	}
}

func TestCompositions_AllEntriesComplete(t *testing.T) {
	for _, c := range Compositions() {
		if c.MaterialKey == "" || c.Name == "" || c.Unit == "" {
			t.Errorf("incomplete catalog entry: %+v", c)
		}
		if c.DefaultUnitPrice <= 0 {
			t.Errorf("non-positive default price for %s/%d: %v", c.MaterialKey, c.CompositionIndex, c.DefaultUnitPrice)
		}
	}
}

func TestFind(t *testing.T) {
	c, ok := Find("concrete", 0)
	if !ok {
		t.Fatal("expected concrete/0 to exist")
	}
	if c.Unit != "m³" {
		t.Errorf("expected unit m³, got %q", c.Unit)
	}

	if _, ok := Find("concrete", 99); ok {
		t.Error("expected concrete/99 to be absent")
	}
	if _, ok := Find("plutonium", 0); ok {
		t.Error("expected unknown material to be absent")
	}
}

func TestCompositions_ReturnsCopy(t *testing.T) {
	a := Compositions()
	a[0].DefaultUnitPrice = -1
	b := Compositions()
	if b[0].DefaultUnitPrice == -1 {
		t.Error("mutating the returned slice must not affect the catalog")
	}
}
