// Package highlight provides the core "biomark highlight" command.
package highlight

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/scilens/biomark/internal/config"
	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/extract"
	"github.com/scilens/biomark/internal/highlight"
	"github.com/scilens/biomark/internal/ner"
	"github.com/scilens/biomark/internal/output"
	"github.com/scilens/biomark/internal/progress"
	"github.com/scilens/biomark/internal/report"
	"github.com/scilens/biomark/internal/runlog"
	"github.com/scilens/biomark/internal/xlsx"
)

// NewCommand returns the highlight subcommand.
func NewCommand() *cobra.Command {
	var (
		outPath     string
		columns     []string
		sheetName   string
		paletteFile string
	)

	cmd := &cobra.Command{
		Use:   "highlight <file.xlsx>",
		Short: "Write a highlighted copy of an Excel file",
		Long: `Scans the given spreadsheet for biomedical entities and writes a copy
with every matched cell filled in its label color, plus a legend below the
data. The input file is never modified.

Example:
  biomark highlight papers.xlsx -c Title -c Abstract -o reviewed.xlsx`,
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

			palette, err := resolvePalette(paletteFile)
			if err != nil {
				return err
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

			entry := runlog.NewEntry("highlight")
			entry.Input = filePath
			entry.Backend = backend.Name()
			entry.Model = backend.Model()
			start := time.Now()

			ext := &extract.Extractor{Backend: backend}

			dataRows := sheet.RowCount() - 1
			if dataRows < 0 {
				dataRows = 0
			}
			var bar *progress.Bar
			switch {
			case verbose:
				ext.OnCell = func(column string, row int, found int) {
					fmt.Fprintf(os.Stderr, "  %s row %d: %d entities\n", column, row, found)
				}
			case !jsonFlag:
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

			if outPath == "" {
				outPath = highlight.DefaultOutputPath(filePath)
			}
			res, err := highlight.Apply(highlight.Options{
				InputPath:  filePath,
				OutputPath: outPath,
				SheetName:  sheetName,
				Palette:    palette,
			}, scan.Matches)
			if err != nil {
				entry.Err = err.Error()
				entry.DurationMs = time.Since(start).Milliseconds()
				runlog.DefaultStore().Record(entry)
				return err
			}

			entry.Output = res.OutputPath
			entry.Cells = scan.Cells
			entry.Entities = tally(scan.Matches)
			entry.DurationMs = time.Since(start).Milliseconds()
			runlog.DefaultStore().Record(entry)

			rep := report.Build(filePath, backend.Name(), backend.Model(), dataRows, scan)

			if jsonFlag {
				return output.PrintJSON("highlight", map[string]any{
					"report": rep,
					"result": res,
				})
			}

			rep.WriteText(os.Stdout)
			fmt.Println()
			fmt.Printf("Highlighted %d cells\n", res.PaintedCells)
			fmt.Printf("Saved results to %s\n", res.OutputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Output file path (default: <input>_highlighted.xlsx)")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to scan (default: all columns)")
	cmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Sheet to process (default: first sheet)")
	cmd.Flags().StringVar(&paletteFile, "palette", "", "YAML palette file overriding the default colors")

	return cmd
}

// resolvePalette picks the palette file from the flag, then the config, then
// falls back to the built-in colors.
func resolvePalette(flagPath string) (entity.Palette, error) {
	path := flagPath
	if path == "" {
		if cfg, err := config.Load(); err == nil {
			path = cfg.Highlight.Palette
		}
	}
	if path == "" {
		return entity.DefaultPalette(), nil
	}
	return entity.LoadPalette(path)
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
