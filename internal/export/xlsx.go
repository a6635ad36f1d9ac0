// Package export renders ledger price points as XLSX workbooks for the
// export endpoint and the CLI.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/goshopper/price-engine/internal/ledger"
)

const sheetName = "Prices"

var header = []string{
	"Product", "Normalized", "Store", "Price", "Currency", "Unit",
	"Quantity", "Price/Unit", "Previous Price", "Recorded At", "Match Type",
}

// Workbook builds an XLSX workbook with one row per price point. The
// caller owns the returned file and must Close it.
func Workbook(points []ledger.PricePoint) *excelize.File {
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheetName)

	for col, title := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheetName, cell, title)
	}

	for row, p := range points {
		previous := ""
		if p.PreviousPrice != nil {
			previous = fmt.Sprintf("%.2f", *p.PreviousPrice)
		}
		values := []interface{}{
			p.ProductNameRaw, p.ProductNameNormalized, p.StoreName, p.Price,
			p.Currency, p.Unit, p.Quantity, p.PricePerUnit, previous,
			p.RecordedAt.Format(time.RFC3339), p.MatchType,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	return f
}
