package importer

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var currencyToken = regexp.MustCompile(`(?i)\s*(FC|CDF|FRANCS?|USD|\$)\s*`)

// ParseAmount parses a price cell into a number. Exports write amounts
// as "2500", "2 500", "2.500,50", "2,500.50" or with a currency tag
// such as "2500 FC"; the last separator decides which convention the
// file uses.
func ParseAmount(value string) (float64, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	cleaned = currencyToken.ReplaceAllString(cleaned, "")
	cleaned = strings.Map(func(r rune) rune {
		// Regular, non-breaking and narrow spaces as thousands separators.
		if r == ' ' || r == ' ' || r == ' ' {
			return -1
		}
		return r
	}, cleaned)

	if cleaned == "" {
		return 0, fmt.Errorf("no numeric value in %q", value)
	}

	lastDot := strings.LastIndex(cleaned, ".")
	lastComma := strings.LastIndex(cleaned, ",")

	switch {
	case lastComma > lastDot:
		// 2.500,50 style, comma is the decimal separator.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case lastDot > lastComma:
		// 2,500.50 style.
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	if amount < 0 {
		return 0, fmt.Errorf("negative amount %q", value)
	}
	return amount, nil
}
