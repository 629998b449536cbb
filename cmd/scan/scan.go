// Package scan provides the "biomark scan" command: report without writing
// a highlighted copy.
package scan

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scilens/biomark/internal/config"
	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/extract"
	"github.com/scilens/biomark/internal/ner"
	"github.com/scilens/biomark/internal/output"
	"github.com/scilens/biomark/internal/progress"
	"github.com/scilens/biomark/internal/report"
	"github.com/scilens/biomark/internal/runlog"
	"github.com/scilens/biomark/internal/xlsx"
)

// NewCommand returns the scan subcommand.
func NewCommand() *cobra.Command {
	var (
		columns    []string
		sheetName  string
		markdownTo string
	)

	cmd := &cobra.Command{
		Use:   "scan <file.xlsx>",
		Short: "Report biomedical entities without writing a copy",
		Long: `Scans the spreadsheet like highlight does but only prints the entity
report. Use --markdown to export the report as a Markdown file ("-" writes
Markdown to stdout).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			verbose, _ := cmd.Flags().GetBool("verbose")
			backendName, _ := cmd.Flags().GetString("backend")
			modelName, _ := cmd.Flags().GetString("model")

			filePath := args[0]
			if !strings.HasSuffix(strings.ToLower(filePath), ".xlsx") {
				return fmt.Errorf("expected a .xlsx file, got %q", filePath)
			}

			backend, err := ner.NewBackend(backendName, modelName)
			if err != nil {
				return err
			}

			wb, err := xlsx.ReadFile(filePath)
			if err != nil {
				return err
			}
			sheet, err := wb.PickSheet(sheetName)
			if err != nil {
				return err
			}

			cols := extract.TargetColumns(sheet.Header(), columns)
			dataRows := sheet.RowCount() - 1
			if dataRows < 0 {
				dataRows = 0
			}

			entry := runlog.NewEntry("scan")
			entry.Input = filePath
			entry.Backend = backend.Name()
			entry.Model = backend.Model()
			start := time.Now()

			ext := &extract.Extractor{Backend: backend}
			var bar *progress.Bar
			switch {
			case verbose:
				ext.OnCell = func(column string, row int, found int) {
					fmt.Fprintf(os.Stderr, "  %s row %d: %d entities\n", column, row, found)
				}
			case !jsonFlag && markdownTo != "-":
				bar = progress.New("Scanning", dataRows*len(cols))
				ext.OnCell = func(column string, row int, found int) {
					bar.Increment(fmt.Sprintf("%s %d", column, row))
				}
			}

			scan, err := ext.ScanSheet(cmd.Context(), sheet, cols)
			if err != nil {
				entry.Err = err.Error()
				entry.DurationMs = time.Since(start).Milliseconds()
				runlog.DefaultStore().Record(entry)
				return err
			}
			if bar != nil {
				bar.Finish(fmt.Sprintf("%d cells annotated", scan.Cells))
			}

			entry.Cells = scan.Cells
			entry.Entities = tally(scan.Matches)
			entry.DurationMs = time.Since(start).Milliseconds()
			runlog.DefaultStore().Record(entry)

			rep := report.Build(filePath, backend.Name(), backend.Model(), dataRows, scan)

			if markdownTo != "" && markdownTo != "-" {
				f, err := os.Create(markdownTo)
				if err != nil {
					return fmt.Errorf("could not create report file %s: %w", markdownTo, err)
				}
				defer f.Close()
				if err := rep.WriteMarkdown(f); err != nil {
					return fmt.Errorf("could not write report: %w", err)
				}
				fmt.Printf("Report written to %s\n", markdownTo)
				return nil
			}

			configured := ""
			if cfg, err := config.Load(); err == nil {
				configured = cfg.Output.Format
			}
			switch output.ResolveFormat(jsonFlag, markdownTo == "-", configured) {
			case output.FormatJSON:
				return output.PrintJSON("scan", rep)
			case output.FormatMarkdown:
				return rep.WriteMarkdown(os.Stdout)
			default:
				rep.WriteText(os.Stdout)
				return nil
			}
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to scan (default: all columns)")
	cmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Sheet to process (default: first sheet)")
	cmd.Flags().StringVar(&markdownTo, "markdown", "", "Write the report as Markdown to this file (\"-\" for stdout)")

	return cmd
}

func tally(matches []entity.CellMatch) map[entity.Label]int {
	if len(matches) == 0 {
		return nil
	}
	counts := make(map[entity.Label]int)
	for _, m := range matches {
		counts[m.Label]++
	}
	return counts
}
