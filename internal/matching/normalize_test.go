package matching

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Lowercase", "Yaourt Danone 500g", "yaourt danone 500g"},
		{"French accents", "Huile VÉGÉTALE 1L", "huile vegetale 1l"},
		{"Accents and punctuation", "Café Moulu, 250g!", "cafe moulu 250g"},
		{"Cedilla and grave", "Bière Château", "biere chateau"},
		{"Punctuation becomes space", "pomme-de-terre", "pomme de terre"},
		{"Collapse whitespace", "  lait   nido  ", "lait nido"},
		{"Decimal comma splits", "Coca Cola 1,5L", "coca cola 1 5l"},
		{"Symbols only", "***!!!", ""},
		{"Empty string", "", ""},
		{"Already normalized", "riz parfume 5kg", "riz parfume 5kg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.input)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Yaourt Danone 500g",
		"Huile VÉGÉTALE 1L",
		"Café Moulu, 250g!",
		"",
		"***",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestExpandAbbreviations(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Single token", "pdt 1kg", "pomme de terre 1kg"},
		{"Whole string", "hle vgt", "huile vegetale"},
		{"Two-word inside longer name", "HLE VGT 1L", "huile vegetale 1l"},
		{"English shorthand", "chkn", "chicken"},
		{"Two-word English", "tom pst 400g", "tomato paste 400g"},
		{"No shorthand unchanged", "tomate fraiche", "tomate fraiche"},
		{"Empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExpandAbbreviations(tt.input)
			if result != tt.expected {
				t.Errorf("ExpandAbbreviations(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
