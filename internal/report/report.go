// Package report aggregates scan results and renders them as terminal text
// or Markdown.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/nao1215/markdown"

	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/extract"
)

// LabelCount pairs a label with the number of matches carrying it.
type LabelCount struct {
	Label entity.Label `json:"label"`
	Count int          `json:"count"`
}

// ColumnSummary aggregates the matches of one scanned column.
type ColumnSummary struct {
	Column string       `json:"column"`
	Total  int          `json:"total"`
	Labels []LabelCount `json:"labels,omitempty"`
}

// Report is the aggregated outcome of one sheet scan.
type Report struct {
	File    string          `json:"file"`
	Sheet   string          `json:"sheet"`
	Backend string          `json:"backend"`
	Model   string          `json:"model"`
	Rows    int             `json:"rows"`
	Cells   int             `json:"cellsAnnotated"`
	Skipped int             `json:"cellsSkipped"`
	Total   int             `json:"totalEntities"`
	Columns []ColumnSummary `json:"columns"`
	Labels  []LabelCount    `json:"labels,omitempty"`
}

// Build aggregates a scan result into a report. Column order follows the
// scan; label order follows the fixed label precedence.
func Build(file, backend, model string, rows int, scan *extract.ScanResult) *Report {
	r := &Report{
		File:    file,
		Sheet:   scan.Sheet,
		Backend: backend,
		Model:   model,
		Rows:    rows,
		Cells:   scan.Cells,
		Skipped: scan.Skipped,
		Total:   len(scan.Matches),
	}

	perColumn := make(map[string]map[entity.Label]int)
	overall := make(map[entity.Label]int)
	for _, m := range scan.Matches {
		if perColumn[m.Column] == nil {
			perColumn[m.Column] = make(map[entity.Label]int)
		}
		perColumn[m.Column][m.Label]++
		overall[m.Label]++
	}

	for _, col := range scan.Columns {
		cs := ColumnSummary{Column: col}
		for _, label := range entity.KnownLabels() {
			if n := perColumn[col][label]; n > 0 {
				cs.Labels = append(cs.Labels, LabelCount{Label: label, Count: n})
				cs.Total += n
			}
		}
		r.Columns = append(r.Columns, cs)
	}

	for _, label := range entity.KnownLabels() {
		if n := overall[label]; n > 0 {
			r.Labels = append(r.Labels, LabelCount{Label: label, Count: n})
		}
	}

	return r
}

// WriteText renders the report the way the scan prints it on a terminal.
func (r *Report) WriteText(w io.Writer) {
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(w, "Loaded %s\n", cyan(r.File))
	fmt.Fprintf(w, "  - Sheet: %s\n", r.Sheet)
	fmt.Fprintf(w, "  - Rows: %d\n", r.Rows)
	fmt.Fprintf(w, "  - Target columns: %v\n", r.ColumnNames())
	fmt.Fprintf(w, "  - Backend: %s (%s)\n", r.Backend, r.Model)

	fmt.Fprintf(w, "\n%s %s\n", bold("Found entities:"), bold(strconv.Itoa(r.Total)))

	for _, cs := range r.Columns {
		if cs.Total == 0 {
			continue
		}
		fmt.Fprintf(w, "\nColumn %s results:\n", cyan("'"+cs.Column+"'"))
		for _, lc := range cs.Labels {
			fmt.Fprintf(w, "   %s: %d\n", lc.Label, lc.Count)
		}
	}

	if r.Skipped > 0 {
		fmt.Fprintf(w, "\nSkipped %d empty cells\n", r.Skipped)
	}
}

// ColumnNames returns just the scanned column names.
func (r *Report) ColumnNames() []string {
	names := make([]string, len(r.Columns))
	for i, cs := range r.Columns {
		names[i] = cs.Column
	}
	return names
}

// WriteMarkdown renders the report as a Markdown document.
func (r *Report) WriteMarkdown(w io.Writer) error {
	md := markdown.NewMarkdown(w)

	md.H1("Entity Scan Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"File", "`" + r.File + "`"},
			{"Sheet", r.Sheet},
			{"Backend", r.Backend + " (" + r.Model + ")"},
			{"Rows", strconv.Itoa(r.Rows)},
			{"Cells annotated", strconv.Itoa(r.Cells)},
			{"Cells skipped", strconv.Itoa(r.Skipped)},
			{"Entities found", strconv.Itoa(r.Total)},
		},
	})
	md.PlainText("")

	if r.Total > 0 {
		md.H2("Entities by column")
		md.PlainText("")
		var rows [][]string
		for _, cs := range r.Columns {
			for _, lc := range cs.Labels {
				rows = append(rows, []string{cs.Column, string(lc.Label), strconv.Itoa(lc.Count)})
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Column", "Label", "Count"},
			Rows:   rows,
		})
		md.PlainText("")

		md.H2("Totals")
		md.PlainText("")
		var totals [][]string
		for _, lc := range r.Labels {
			totals = append(totals, []string{lc.Label.Description(), string(lc.Label), strconv.Itoa(lc.Count)})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Category", "Label", "Count"},
			Rows:   totals,
		})
	}

	return md.Build()
}
