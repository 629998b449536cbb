// Package batch provides the "biomark batch" command for highlighting many
// files at once.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/extract"
	"github.com/scilens/biomark/internal/highlight"
	"github.com/scilens/biomark/internal/ner"
	"github.com/scilens/biomark/internal/runlog"
	"github.com/scilens/biomark/internal/xlsx"
)

type batchResultItem struct {
	File     string `json:"file"`
	Status   string `json:"status"`
	Output   string `json:"output,omitempty"`
	Cells    int    `json:"cells,omitempty"`
	Entities int    `json:"entities,omitempty"`
	Error    string `json:"error,omitempty"`
}

// NewCommand returns the batch subcommand.
func NewCommand() *cobra.Command {
	var (
		columns     []string
		sheetName   string
		paletteFile string
		outDir      string
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "batch <glob-pattern>",
		Short: "Highlight every spreadsheet matching a glob pattern",
		Long: `Runs the highlight operation on all .xlsx files matching a glob pattern.

On error, the batch logs the failure and continues to the next file.
Already highlighted copies (*_highlighted.xlsx) are skipped.

Example:
  biomark batch 'papers/*.xlsx' --out-dir reviewed --concurrency 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			backendName, _ := cmd.Flags().GetString("backend")
			modelName, _ := cmd.Flags().GetString("model")

			pattern := args[0]
			matched, err := filepath.Glob(pattern)
			if err != nil {
				return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
			}

			var files []string
			for _, f := range matched {
				if !strings.HasSuffix(strings.ToLower(f), ".xlsx") {
					continue
				}
				base := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
				if strings.HasSuffix(base, "_highlighted") {
					continue
				}
				files = append(files, f)
			}
			if len(files) == 0 {
				return fmt.Errorf("no .xlsx files matched pattern %q", pattern)
			}

			palette := entity.DefaultPalette()
			if paletteFile != "" {
				palette, err = entity.LoadPalette(paletteFile)
				if err != nil {
					return err
				}
			}

			backend, err := ner.NewBackend(backendName, modelName)
			if err != nil {
				return err
			}

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0755); err != nil {
					return fmt.Errorf("could not create output directory %s: %w", outDir, err)
				}
			}

			ctx := cmd.Context()
			results := make([]batchResultItem, len(files))
			succeeded := 0
			failed := 0

			if concurrency <= 1 {
				// Sequential processing
				for i, file := range files {
					if !jsonFlag {
						fmt.Printf("[%d/%d] Processing %s...\n", i+1, len(files), filepath.Base(file))
					}
					result := processFile(ctx, backend, file, columns, sheetName, palette, outDir)
					results[i] = result
					if result.Status == "ok" {
						succeeded++
					} else {
						failed++
					}
				}
			} else {
				// Concurrent processing
				var mu sync.Mutex
				sem := make(chan struct{}, concurrency)
				var wg sync.WaitGroup

				for i, file := range files {
					wg.Add(1)
					go func(idx int, f string) {
						defer wg.Done()
						sem <- struct{}{}
						defer func() { <-sem }()

						if !jsonFlag {
							mu.Lock()
							fmt.Printf("[%d/%d] Processing %s...\n", idx+1, len(files), filepath.Base(f))
							mu.Unlock()
						}

						result := processFile(ctx, backend, f, columns, sheetName, palette, outDir)
						mu.Lock()
						results[idx] = result
						if result.Status == "ok" {
							succeeded++
						} else {
							failed++
						}
						mu.Unlock()
					}(i, file)
				}
				wg.Wait()
			}

			if jsonFlag {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}

			for _, r := range results {
				if r.Status == "ok" {
					fmt.Printf("  %s → %s (%d entities)\n", r.File, r.Output, r.Entities)
				} else {
					fmt.Printf("  %s: %s\n", r.File, r.Error)
				}
			}

			fmt.Printf("\nProcessed %d files. %d succeeded, %d failed.\n", len(files), succeeded, failed)
			if failed > 0 {
				return fmt.Errorf("%d file(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to scan (default: all columns)")
	cmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Sheet to process (default: first sheet)")
	cmd.Flags().StringVar(&paletteFile, "palette", "", "YAML palette file overriding the default colors")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory for the highlighted copies")
	cmd.Flags().IntVar(&concurrency, "concurrency", 1, "Number of parallel workers")

	return cmd
}

func processFile(ctx context.Context, backend ner.Backend, file string, columns []string, sheetName string, palette entity.Palette, outDir string) batchResultItem {
	result := batchResultItem{File: file, Status: "ok"}

	entry := runlog.NewEntry("batch")
	entry.Input = file
	entry.Backend = backend.Name()
	entry.Model = backend.Model()
	start := time.Now()

	fail := func(err error) batchResultItem {
		result.Status = "error"
		result.Error = err.Error()
		entry.Err = err.Error()
		entry.DurationMs = time.Since(start).Milliseconds()
		runlog.DefaultStore().Record(entry)
		return result
	}

	wb, err := xlsx.ReadFile(file)
	if err != nil {
		return fail(err)
	}
	sheet, err := wb.PickSheet(sheetName)
	if err != nil {
		return fail(err)
	}

	ext := &extract.Extractor{Backend: backend}
	scan, err := ext.ScanSheet(ctx, sheet, extract.TargetColumns(sheet.Header(), columns))
	if err != nil {
		return fail(err)
	}

	outPath := highlight.DefaultOutputPath(file)
	if outDir != "" {
		outPath = filepath.Join(outDir, filepath.Base(outPath))
	}

	res, err := highlight.Apply(highlight.Options{
		InputPath:  file,
		OutputPath: outPath,
		SheetName:  sheetName,
		Palette:    palette,
	}, scan.Matches)
	if err != nil {
		return fail(err)
	}

	result.Output = res.OutputPath
	result.Cells = scan.Cells
	result.Entities = len(scan.Matches)

	entry.Output = res.OutputPath
	entry.Cells = scan.Cells
	entry.Entities = tally(scan.Matches)
	entry.DurationMs = time.Since(start).Milliseconds()
	runlog.DefaultStore().Record(entry)

	return result
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
