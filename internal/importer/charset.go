package importer

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText returns the file content as a UTF-8 string. Spreadsheet
// exports from older point-of-sale systems arrive as Windows-1252 or
// Latin-1; anything that is not valid UTF-8 is decoded as Windows-1252,
// which covers the accented French characters those exports contain.
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoder := charmap.Windows1252.NewDecoder()
	reader := transform.NewReader(bytes.NewReader(data), decoder)
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// foldHeader lowercases a header cell and strips the accents and
// separators that vary between exports, so "Prix_Unitaire" and
// "prix unitaire" resolve to the same column.
func foldHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Map(func(r rune) rune {
		switch r {
		case 'é', 'è', 'ê', 'ë':
			return 'e'
		case 'à', 'â', 'ä':
			return 'a'
		case 'î', 'ï':
			return 'i'
		case 'ô', 'ö':
			return 'o'
		case 'ù', 'û', 'ü':
			return 'u'
		case 'ç':
			return 'c'
		case '_', '-':
			return ' '
		default:
			return r
		}
	}, h)
	return strings.Join(strings.Fields(h), " ")
}
