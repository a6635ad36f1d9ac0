package importer

import (
	"fmt"
	"strings"
)

// Header aliases seen across store exports, folded form. French first,
// since that is what the Kinshasa point-of-sale systems emit.
var columnAliases = map[string][]string{
	"name":     {"produit", "nom", "article", "designation", "libelle", "product", "name", "item"},
	"price":    {"prix", "prix unitaire", "pu", "montant", "price", "unit price", "amount"},
	"quantity": {"quantite", "qte", "qty", "quantity"},
	"unit":     {"unite", "unit", "uom"},
	"store":    {"magasin", "enseigne", "boutique", "store"},
}

type columnIndex map[string]int

// resolveColumns maps the fields the ledger needs to header positions.
// Name and price are required; everything else is optional.
func resolveColumns(headers []string) (columnIndex, error) {
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = foldHeader(h)
	}

	indices := make(columnIndex)
	for field, aliases := range columnAliases {
		for _, alias := range aliases {
			for i, h := range folded {
				if h == alias {
					indices[field] = i
					break
				}
			}
			if _, ok := indices[field]; ok {
				break
			}
		}
	}

	if _, ok := indices["name"]; !ok {
		return nil, fmt.Errorf("no product name column in headers %v", headers)
	}
	if _, ok := indices["price"]; !ok {
		return nil, fmt.Errorf("no price column in headers %v", headers)
	}
	return indices, nil
}

// mapRecords converts raw spreadsheet records into rows. The first
// record is the header; invalid lines are reported and skipped rather
// than failing the file.
func mapRecords(records [][]string, defaultStore string) (*ParseOutcome, error) {
	if len(records) == 0 {
		return &ParseOutcome{}, nil
	}

	indices, err := resolveColumns(records[0])
	if err != nil {
		return nil, err
	}

	outcome := &ParseOutcome{}
	for i, record := range records[1:] {
		line := i + 2 // 1-based, after the header

		if isEmptyRecord(record) {
			continue
		}
		outcome.TotalRows++

		cell := func(field string) string {
			idx, ok := indices[field]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		name := cell("name")
		if name == "" {
			outcome.Errors = append(outcome.Errors, RowError{Line: line, Field: "name", Message: "product name is required"})
			continue
		}

		priceRaw := cell("price")
		price, err := ParseAmount(priceRaw)
		if err != nil {
			outcome.Errors = append(outcome.Errors, RowError{Line: line, Field: "price", Message: err.Error(), Value: priceRaw})
			continue
		}

		quantity := 0.0
		if qRaw := cell("quantity"); qRaw != "" {
			quantity, err = ParseAmount(qRaw)
			if err != nil {
				outcome.Errors = append(outcome.Errors, RowError{Line: line, Field: "quantity", Message: err.Error(), Value: qRaw})
				continue
			}
		}

		store := cell("store")
		if store == "" {
			store = defaultStore
		}
		if store == "" {
			outcome.Errors = append(outcome.Errors, RowError{Line: line, Field: "store", Message: "no store column and no default store"})
			continue
		}

		outcome.Rows = append(outcome.Rows, Row{
			Line:      line,
			Store:     store,
			Name:      name,
			UnitPrice: price,
			Quantity:  quantity,
			Unit:      cell("unit"),
		})
	}

	return outcome, nil
}

func isEmptyRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
