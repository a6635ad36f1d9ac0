package receipts

import (
	"strings"
	"testing"
)

func TestContentHashDeterminism(t *testing.T) {
	lines := []Line{
		{Name: "Riz parfumé 5kg", UnitPrice: 10000, Quantity: 1},
		{Name: "Yaourt Danone 500g", UnitPrice: 2000, Quantity: 2},
	}

	h1 := ContentHash("kin marche", lines)
	h2 := ContentHash("kin marche", lines)
	if h1 != h2 {
		t.Errorf("same content produced different hashes: %s vs %s", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("hash length = %d, want 64 hex chars", len(h1))
	}
}

func TestContentHashOrderIndependence(t *testing.T) {
	a := []Line{
		{Name: "Riz parfumé 5kg", UnitPrice: 10000, Quantity: 1},
		{Name: "Yaourt Danone 500g", UnitPrice: 2000, Quantity: 2},
	}
	b := []Line{
		{Name: "Yaourt Danone 500g", UnitPrice: 2000, Quantity: 2},
		{Name: "Riz parfumé 5kg", UnitPrice: 10000, Quantity: 1},
	}

	if ContentHash("kin marche", a) != ContentHash("kin marche", b) {
		t.Error("line order changed the hash")
	}
}

func TestContentHashSensitivity(t *testing.T) {
	base := []Line{{Name: "Riz parfumé 5kg", UnitPrice: 10000, Quantity: 1}}
	variants := []struct {
		name  string
		store string
		lines []Line
	}{
		{"price change", "kin marche", []Line{{Name: "Riz parfumé 5kg", UnitPrice: 10500, Quantity: 1}}},
		{"quantity change", "kin marche", []Line{{Name: "Riz parfumé 5kg", UnitPrice: 10000, Quantity: 2}}},
		{"name change", "kin marche", []Line{{Name: "Riz parfumé 10kg", UnitPrice: 10000, Quantity: 1}}},
		{"store change", "shoprite", base},
		{"extra line", "kin marche", append([]Line{{Name: "Sel 500g", UnitPrice: 800, Quantity: 1}}, base...)},
	}

	want := ContentHash("kin marche", base)
	for _, v := range variants {
		t.Run(v.name, func(t *testing.T) {
			if ContentHash(v.store, v.lines) == want {
				t.Error("variant collided with base hash")
			}
		})
	}
}

func TestContentHashFoldsCase(t *testing.T) {
	a := []Line{{Name: "RIZ PARFUMÉ 5KG", UnitPrice: 10000, Quantity: 1}}
	b := []Line{{Name: "riz parfumé 5kg", UnitPrice: 10000, Quantity: 1}}
	if ContentHash("kin marche", a) != ContentHash("kin marche", b) {
		t.Error("casing changed the hash")
	}
}

func TestDeterministicID(t *testing.T) {
	lines := []Line{{Name: "Pain", UnitPrice: 500, Quantity: 1}}
	id := DeterministicID("shoprite", lines)
	if !strings.HasPrefix(id, "rc_") {
		t.Errorf("id %q missing rc_ prefix", id)
	}
	if len(id) != 3+24 {
		t.Errorf("id length = %d, want 27", len(id))
	}
	if id != DeterministicID("shoprite", lines) {
		t.Error("id is not deterministic")
	}
}
