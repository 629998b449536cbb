// Package extract scans spreadsheet cells for biomedical entities by sending
// each non-empty cell to an NER backend.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/ner"
	"github.com/scilens/biomark/internal/xlsx"
)

// Extractor annotates sheet cells through a Backend.
type Extractor struct {
	Backend ner.Backend

	// OnCell, when set, is called after each annotated cell with the number
	// of matches found. Used for progress reporting.
	OnCell func(column string, row int, found int)
}

// ScanResult holds everything one sheet scan produced.
type ScanResult struct {
	Sheet   string             `json:"sheet"`
	Columns []string           `json:"columns"`
	Matches []entity.CellMatch `json:"matches"`
	Cells   int                `json:"cells_annotated"`
	Skipped int                `json:"cells_skipped"`
}

// AnnotateText annotates a single text and keeps only the known biomedical
// labels. Empty or whitespace-only text returns no matches without calling
// the backend.
func (e *Extractor) AnnotateText(ctx context.Context, text string) ([]entity.Match, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	raw, err := e.Backend.Annotate(ctx, text)
	if err != nil {
		return nil, err
	}

	matches := make([]entity.Match, 0, len(raw))
	for _, m := range raw {
		if m.Label.Known() {
			matches = append(matches, m)
		}
	}
	return matches, nil
}

// TargetColumns resolves requested column names against the sheet header.
// Requested names keep their order; names not present in the header are
// silently dropped. An empty request selects every named header column.
func TargetColumns(header []string, requested []string) []string {
	if len(requested) == 0 {
		cols := make([]string, 0, len(header))
		for _, h := range header {
			if h != "" {
				cols = append(cols, h)
			}
		}
		return cols
	}

	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}

	cols := make([]string, 0, len(requested))
	for _, r := range requested {
		if present[r] {
			cols = append(cols, r)
		}
	}
	return cols
}

// ScanSheet annotates every target cell of the sheet. The first row is the
// header; data rows are numbered from 2 the way spreadsheets display them.
func (e *Extractor) ScanSheet(ctx context.Context, sheet *xlsx.Sheet, columns []string) (*ScanResult, error) {
	result := &ScanResult{
		Sheet:   sheet.Name,
		Matches: []entity.CellMatch{},
	}

	header := sheet.Header()
	result.Columns = TargetColumns(header, columns)
	if len(result.Columns) == 0 {
		return result, nil
	}

	colIndex := make(map[string]int, len(header))
	for i, h := range header {
		if _, seen := colIndex[h]; !seen {
			colIndex[h] = i
		}
	}

	for _, col := range result.Columns {
		ci := colIndex[col]
		for i, row := range sheet.Rows[1:] {
			rowNum := i + 2 // row 1 is the header

			if ci >= len(row) || strings.TrimSpace(row[ci]) == "" {
				result.Skipped++
				continue
			}
			text := row[ci]

			matches, err := e.AnnotateText(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("could not annotate column %q row %d: %w", col, rowNum, err)
			}

			for _, m := range matches {
				result.Matches = append(result.Matches, entity.CellMatch{
					Match:    m,
					Row:      rowNum,
					Column:   col,
					CellText: text,
				})
			}
			result.Cells++

			if e.OnCell != nil {
				e.OnCell(col, rowNum, len(matches))
			}
		}
	}

	return result, nil
}
