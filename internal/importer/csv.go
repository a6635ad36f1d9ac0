package importer

import (
	"encoding/csv"
	"fmt"
	"strings"
)

var candidateDelimiters = []rune{',', ';', '\t'}

// detectDelimiter picks the delimiter whose per-line count is high and
// consistent over the first few non-empty lines. Kinshasa exports are
// split between comma and semicolon, with the odd tab-separated file.
func detectDelimiter(content string) rune {
	sample := make([]string, 0, 5)
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			sample = append(sample, trimmed)
			if len(sample) == 5 {
				break
			}
		}
	}
	if len(sample) == 0 {
		return ','
	}

	best := ','
	bestScore := 0.0
	for _, delim := range candidateDelimiters {
		sum := 0
		for _, line := range sample {
			sum += strings.Count(line, string(delim))
		}
		avg := float64(sum) / float64(len(sample))
		if avg == 0 {
			continue
		}

		variance := 0.0
		for _, line := range sample {
			diff := float64(strings.Count(line, string(delim))) - avg
			variance += diff * diff
		}
		variance /= float64(len(sample))

		score := avg / (1.0 + variance)
		if score > bestScore {
			bestScore = score
			best = delim
		}
	}
	return best
}

// parseCSV parses CSV bytes into rows. A zero delimiter means detect.
func parseCSV(content []byte, delimiter rune, defaultStore string) (*ParseOutcome, error) {
	text, err := decodeText(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode file: %w", err)
	}

	if delimiter == 0 {
		delimiter = detectDelimiter(text)
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return mapRecords(records, defaultStore)
}
