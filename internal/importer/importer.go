// Package importer loads price lines from store export files into the
// ledger. It accepts CSV and XLSX files, or ZIP archives of either, and
// feeds the parsed lines through the same match-then-upsert path a live
// receipt takes, grouped into one synthetic receipt per store.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/goshopper/price-engine/internal/ledger"
	"github.com/goshopper/price-engine/internal/receipts"
	"github.com/goshopper/price-engine/internal/stores"
)

// Row is one parsed price line.
type Row struct {
	Line      int
	Store     string
	Name      string
	UnitPrice float64
	Quantity  float64
	Unit      string
}

// RowError reports one rejected line.
type RowError struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

// ParseOutcome is the result of parsing one file before any upserts.
type ParseOutcome struct {
	Rows      []Row
	Errors    []RowError
	TotalRows int
}

// FileSummary aggregates what one file did to the ledger.
type FileSummary struct {
	Filename  string     `json:"filename"`
	TotalRows int        `json:"totalRows"`
	Created   int        `json:"created"`
	Updated   int        `json:"updated"`
	Skipped   int        `json:"skipped"`
	Failed    int        `json:"failed"`
	Errors    []RowError `json:"errors,omitempty"`
}

// Options configures an import run.
type Options struct {
	DefaultStore string // store for files without a store column
	Currency     string // defaults to CDF
	Delimiter    rune   // CSV delimiter, zero means detect
}

type Importer struct {
	upserter *ledger.Upserter
	opts     Options
	logger   *slog.Logger
}

func New(upserter *ledger.Upserter, opts Options, logger *slog.Logger) *Importer {
	if opts.Currency == "" {
		opts.Currency = "CDF"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{upserter: upserter, opts: opts, logger: logger}
}

// Import parses one file and applies its rows to the ledger. ZIP
// archives expand into one summary per contained file.
func (imp *Importer) Import(ctx context.Context, filename string, content []byte) ([]FileSummary, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".zip":
		files, err := expandArchive(content)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("archive %s contains no importable files", filename)
		}
		summaries := make([]FileSummary, 0, len(files))
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return summaries, err
			}
			s, err := imp.importOne(ctx, f.Name, f.Content)
			if err != nil {
				return summaries, fmt.Errorf("%s: %w", f.Name, err)
			}
			summaries = append(summaries, s)
		}
		return summaries, nil
	case ".csv", ".xlsx":
		s, err := imp.importOne(ctx, filename, content)
		if err != nil {
			return nil, err
		}
		return []FileSummary{s}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %s", filepath.Ext(filename))
	}
}

func (imp *Importer) importOne(ctx context.Context, filename string, content []byte) (FileSummary, error) {
	summary := FileSummary{Filename: filename}

	var outcome *ParseOutcome
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		outcome, err = parseCSV(content, imp.opts.Delimiter, imp.opts.DefaultStore)
	case ".xlsx":
		outcome, err = parseXLSX(content, imp.opts.DefaultStore)
	}
	if err != nil {
		return summary, err
	}

	summary.TotalRows = outcome.TotalRows
	summary.Errors = outcome.Errors

	for _, batch := range groupByStore(outcome.Rows) {
		rc, items := imp.buildBatch(batch)
		result := imp.upserter.UpsertBatch(ctx, rc, items)
		summary.Created += result.Created
		summary.Updated += result.Updated
		summary.Skipped += result.Skipped
		summary.Failed += result.Failed
	}

	imp.logger.Info("file imported",
		"file", filename,
		"rows", summary.TotalRows,
		"created", summary.Created,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"rejected", len(summary.Errors))
	return summary, nil
}

// buildBatch turns one store's rows into a synthetic receipt. The
// receipt id is derived from the content, so re-importing the same file
// keeps the same identity.
func (imp *Importer) buildBatch(rows []Row) (ledger.ReceiptContext, []ledger.Item) {
	items := make([]ledger.Item, 0, len(rows))
	lines := make([]receipts.Line, 0, len(rows))
	for _, r := range rows {
		items = append(items, ledger.Item{
			Name:      r.Name,
			UnitPrice: r.UnitPrice,
			Quantity:  r.Quantity,
			Unit:      r.Unit,
		})
		lines = append(lines, receipts.Line{
			Name:      r.Name,
			UnitPrice: r.UnitPrice,
			Quantity:  r.Quantity,
		})
	}

	rc := ledger.ReceiptContext{
		StoreName:           stores.DisplayName(rows[0].Store),
		StoreNameNormalized: stores.Canonicalize(rows[0].Store),
		Currency:            imp.opts.Currency,
	}
	rc.ReceiptID = receipts.DeterministicID(rc.StoreNameNormalized, lines)
	return rc, items
}

// groupByStore splits rows into per-store batches, preserving the
// file's row order within each batch.
func groupByStore(rows []Row) [][]Row {
	order := make([]string, 0, 4)
	groups := make(map[string][]Row)
	for _, r := range rows {
		key := stores.Canonicalize(r.Store)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	batches := make([][]Row, 0, len(order))
	for _, key := range order {
		batches = append(batches, groups[key])
	}
	return batches
}
