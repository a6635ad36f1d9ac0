// Package receipts derives deterministic identities for ingested
// receipts. A receipt posted twice without an explicit id hashes to the
// same identity, so the second pass lands on the same price points and
// degrades to tolerance skips instead of forking a parallel history.
package receipts

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// HashVersion is the current version of the hash algorithm.
const HashVersion = 1

// Line is one receipt item reduced to the fields that identify it.
type Line struct {
	Name      string
	UnitPrice float64
	Quantity  float64
}

// ContentHash computes a deterministic hash of a receipt's store and
// lines, ensuring that:
// - same content = same hash
// - different line order = same hash
// - any price, quantity, or name difference = different hash
// - names are folded to lowercase so OCR casing noise does not split ids
func ContentHash(storeKey string, lines []Line) string {
	sorted := make([]Line, len(lines))
	copy(sorted, lines)

	sort.Slice(sorted, func(i, j int) bool {
		nameI := strings.ToLower(sorted[i].Name)
		nameJ := strings.ToLower(sorted[j].Name)
		if nameI != nameJ {
			return nameI < nameJ
		}
		if sorted[i].UnitPrice != sorted[j].UnitPrice {
			return sorted[i].UnitPrice < sorted[j].UnitPrice
		}
		return sorted[i].Quantity < sorted[j].Quantity
	})

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "v%d:%s\n", HashVersion, strings.ToLower(storeKey))
	for _, l := range sorted {
		fmt.Fprintf(&buf, "%s:%s:%s\n",
			strings.ToLower(l.Name),
			strconv.FormatFloat(l.UnitPrice, 'f', -1, 64),
			strconv.FormatFloat(l.Quantity, 'f', -1, 64))
	}

	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:])
}

// DeterministicID builds a receipt id from the content hash. The prefix
// keeps the id recognizable next to cuid2-style price point ids.
func DeterministicID(storeKey string, lines []Line) string {
	return "rc_" + ContentHash(storeKey, lines)[:24]
}
