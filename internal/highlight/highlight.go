// Package highlight writes a colored copy of a workbook, painting the cells
// where biomedical entities were found and appending a legend.
package highlight

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/scilens/biomark/internal/entity"
	"github.com/xuri/excelize/v2"
)

// Options configures one highlighting pass.
type Options struct {
	InputPath  string
	OutputPath string
	SheetName  string // empty selects the first sheet
	Palette    entity.Palette
}

// Result reports what a highlighting pass produced.
type Result struct {
	OutputPath   string `json:"output"`
	Sheet        string `json:"sheet"`
	PaintedCells int    `json:"paintedCells"`
	LegendRow    int    `json:"legendRow"`
}

// DefaultOutputPath derives the output file name from the input file name.
func DefaultOutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_highlighted.xlsx"
}

// Apply opens the input workbook once, paints every matched cell with its
// label's fill, appends the legend three rows below the last used row, and
// saves the result to the output path. The input file is never modified.
//
// When a cell carries matches with different labels, the label earliest in
// entity.KnownLabels wins the fill.
func Apply(opts Options, matches []entity.CellMatch) (*Result, error) {
	if filepath.Clean(opts.OutputPath) == filepath.Clean(opts.InputPath) {
		return nil, fmt.Errorf("output path must differ from the input path — the input workbook is never modified")
	}
	if opts.Palette == nil {
		opts.Palette = entity.DefaultPalette()
	}

	f, err := excelize.OpenFile(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", opts.InputPath, err)
	}
	defer f.Close()

	sheet, err := pickSheet(f, opts.SheetName)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheet, err)
	}

	// Header names to 1-based column indexes, first occurrence wins.
	colOf := make(map[string]int)
	if len(rows) > 0 {
		for i, h := range rows[0] {
			if h != "" {
				if _, seen := colOf[h]; !seen {
					colOf[h] = i + 1
				}
			}
		}
	}

	styles := newStyleCache(f, opts.Palette)

	painted := 0
	for ref, label := range winningLabels(matches) {
		ci, ok := colOf[ref.column]
		if !ok {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(ci, ref.row)
		if err != nil {
			return nil, fmt.Errorf("could not address cell (%s, row %d): %w", ref.column, ref.row, err)
		}
		styleID, err := styles.fill(label)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, cell, cell, styleID); err != nil {
			return nil, fmt.Errorf("could not style cell %s: %w", cell, err)
		}
		painted++
	}

	legendRow := len(rows) + 3
	if err := writeLegend(f, sheet, legendRow, styles); err != nil {
		return nil, err
	}

	if err := f.SaveAs(opts.OutputPath); err != nil {
		return nil, fmt.Errorf("could not save %s: %w", opts.OutputPath, err)
	}

	return &Result{
		OutputPath:   opts.OutputPath,
		Sheet:        sheet,
		PaintedCells: painted,
		LegendRow:    legendRow,
	}, nil
}

func pickSheet(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook has no sheets")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found — available sheets: %v", name, sheets)
}

// cellRef identifies one data cell by worksheet row and header column name.
type cellRef struct {
	row    int
	column string
}

// winningLabels reduces the match list to one label per cell using the fixed
// label precedence.
func winningLabels(matches []entity.CellMatch) map[cellRef]entity.Label {
	winner := make(map[cellRef]entity.Label)
	for _, m := range matches {
		ref := cellRef{row: m.Row, column: m.Column}
		if cur, ok := winner[ref]; !ok || m.Label.Wins(cur) {
			winner[ref] = m.Label
		}
	}
	return winner
}

// styleCache creates excelize styles on demand so each label fill is
// registered once per workbook.
type styleCache struct {
	f       *excelize.File
	palette entity.Palette
	fills   map[entity.Label]int
}

func newStyleCache(f *excelize.File, palette entity.Palette) *styleCache {
	return &styleCache{f: f, palette: palette, fills: make(map[entity.Label]int)}
}

func (c *styleCache) fill(l entity.Label) (int, error) {
	if id, ok := c.fills[l]; ok {
		return id, nil
	}
	id, err := c.f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{c.palette.Color(l)}, Pattern: 1},
	})
	if err != nil {
		return 0, fmt.Errorf("could not create fill style for %s: %w", l, err)
	}
	c.fills[l] = id
	return id, nil
}

func (c *styleCache) boldTitle() (int, error) {
	id, err := c.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return 0, fmt.Errorf("could not create legend title style: %w", err)
	}
	return id, nil
}

// writeLegend appends the color legend: a bold title, then one row per label
// with the filled description in column A and the label name in column B.
func writeLegend(f *excelize.File, sheet string, startRow int, styles *styleCache) error {
	title, err := excelize.CoordinatesToCellName(1, startRow)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, title, "Highlight Legend:"); err != nil {
		return fmt.Errorf("could not write legend title: %w", err)
	}
	boldID, err := styles.boldTitle()
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, title, title, boldID); err != nil {
		return fmt.Errorf("could not style legend title: %w", err)
	}

	for i, label := range entity.KnownLabels() {
		row := startRow + 1 + i

		descCell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, descCell, label.Description()); err != nil {
			return fmt.Errorf("could not write legend entry: %w", err)
		}
		fillID, err := styles.fill(label)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, descCell, descCell, fillID); err != nil {
			return fmt.Errorf("could not style legend entry: %w", err)
		}

		labelCell, err := excelize.CoordinatesToCellName(2, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, labelCell, fmt.Sprintf("(%s)", label)); err != nil {
			return fmt.Errorf("could not write legend label: %w", err)
		}
	}
	return nil
}
