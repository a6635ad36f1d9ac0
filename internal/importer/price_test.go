package importer

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"2500", 2500},
		{"2 500", 2500},
		{"2 500", 2500},
		{"2500 FC", 2500},
		{"2500 CDF", 2500},
		{"1 250,50", 1250.50},
		{"2.500,50", 2500.50},
		{"2,500.50", 2500.50},
		{"12.99", 12.99},
		{"0", 0},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.input)
		if err != nil {
			t.Errorf("ParseAmount(%q) error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("ParseAmount(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "-500", "prix"} {
		if _, err := ParseAmount(input); err == nil {
			t.Errorf("ParseAmount(%q) should fail", input)
		}
	}
}

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected rune
	}{
		{"semicolon", "produit;prix;qte\nRiz;2500;1\nSel;700;2\n", ';'},
		{"comma", "produit,prix\nRiz,2500\n", ','},
		{"tab", "produit\tprix\nRiz\t2500\n", '\t'},
		{"empty defaults to comma", "", ','},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectDelimiter(tt.content); got != tt.expected {
				t.Errorf("detectDelimiter = %q, want %q", got, tt.expected)
			}
		})
	}
}
