// Package watch provides the "biomark watch" CLI commands for directory
// monitoring.
package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/extract"
	"github.com/scilens/biomark/internal/highlight"
	"github.com/scilens/biomark/internal/ner"
	"github.com/scilens/biomark/internal/runlog"
	w "github.com/scilens/biomark/internal/watch"
	"github.com/scilens/biomark/internal/xlsx"
)

// NewCommand creates the "watch" command with subcommands.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Monitor directories and auto-highlight new spreadsheets",
		Long: `Watch directories for new or modified .xlsx files and write a highlighted
copy next to each one. Highlighted copies are ignored, so watching a
directory does not re-process its own output.

Example:
  biomark watch start ./papers --pattern 'papers-*.xlsx'
  biomark watch status
  biomark watch stop`,
	}

	cmd.AddCommand(newStartCmd())
	cmd.AddCommand(newStopCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func newStartCmd() *cobra.Command {
	var (
		pattern   string
		columns   []string
		sheetName string
		recursive bool
		debounce  int
	)

	cmd := &cobra.Command{
		Use:   "start <directory> [directory...]",
		Short: "Start watching directories for spreadsheet changes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backendName, _ := cmd.Flags().GetString("backend")
			modelName, _ := cmd.Flags().GetString("model")

			backend, err := ner.NewBackend(backendName, modelName)
			if err != nil {
				return err
			}

			rules := []w.Rule{
				{
					ID:      "default",
					Pattern: pattern,
					Columns: columns,
					Sheet:   sheetName,
					Backend: backend.Name(),
					Model:   backend.Model(),
					Enabled: true,
				},
			}

			config := w.WatchConfig{
				Directories: args,
				Rules:       rules,
				Recursive:   recursive,
				Debounce:    debounce,
			}

			watcher, err := w.New(config)
			if err != nil {
				return err
			}

			watcher.Handler = func(path string, rule w.Rule) (string, error) {
				out, err := highlightFile(cmd.Context(), backend, path, rule)
				if err != nil {
					fmt.Fprintf(os.Stderr, "  %s: %v\n", path, err)
					return "", err
				}
				fmt.Printf("  %s → %s\n", path, out)
				return out, nil
			}

			// Write PID
			configDir := w.DefaultConfigDir()
			if err := w.WritePIDFile(configDir); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not write PID file: %v\n", err)
			}
			defer w.RemovePIDFile(configDir)

			// Save config for status command
			w.SaveConfig(configDir, config)

			fmt.Printf("Watching %d directory(ies) for .xlsx files\n", len(args))
			if pattern != "" {
				fmt.Printf("  Pattern: %s\n", pattern)
			}
			fmt.Printf("  Backend: %s\n", backend.Name())
			fmt.Println("Press Ctrl+C to stop")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// Handle signals
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				fmt.Println("\nStopping watcher...")
				cancel()
			}()

			return watcher.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Only process files matching this glob (e.g. 'papers-*.xlsx')")
	cmd.Flags().StringSliceVarP(&columns, "columns", "c", nil, "Columns to scan (default: all columns)")
	cmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "Sheet to process (default: first sheet)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Watch directories recursively")
	cmd.Flags().IntVar(&debounce, "debounce", 500, "Debounce interval in milliseconds")

	return cmd
}

// highlightFile runs the full highlight pipeline for one watched workbook.
func highlightFile(ctx context.Context, backend ner.Backend, path string, rule w.Rule) (string, error) {
	entry := runlog.NewEntry("watch")
	entry.Input = path
	entry.Backend = backend.Name()
	entry.Model = backend.Model()
	start := time.Now()

	fail := func(err error) (string, error) {
		entry.Err = err.Error()
		entry.DurationMs = time.Since(start).Milliseconds()
		runlog.DefaultStore().Record(entry)
		return "", err
	}

	wb, err := xlsx.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	sheet, err := wb.PickSheet(rule.Sheet)
	if err != nil {
		return fail(err)
	}

	ext := &extract.Extractor{Backend: backend}
	scan, err := ext.ScanSheet(ctx, sheet, extract.TargetColumns(sheet.Header(), rule.Columns))
	if err != nil {
		return fail(err)
	}

	res, err := highlight.Apply(highlight.Options{
		InputPath:  path,
		OutputPath: highlight.DefaultOutputPath(path),
		SheetName:  rule.Sheet,
		Palette:    entity.DefaultPalette(),
	}, scan.Matches)
	if err != nil {
		return fail(err)
	}

	entry.Output = res.OutputPath
	entry.Cells = scan.Cells
	entry.DurationMs = time.Since(start).Milliseconds()
	runlog.DefaultStore().Record(entry)

	return res.OutputPath, nil
}

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the running watcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := w.DefaultConfigDir()
			pid, err := w.ReadPIDFile(configDir)
			if err != nil {
				return fmt.Errorf("no watcher running (PID file not found)")
			}

			process, err := os.FindProcess(pid)
			if err != nil {
				return fmt.Errorf("could not find process %d: %w", pid, err)
			}

			if err := process.Signal(syscall.SIGTERM); err != nil {
				w.RemovePIDFile(configDir)
				return fmt.Errorf("could not stop watcher (PID %d): %w", pid, err)
			}

			w.RemovePIDFile(configDir)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(map[string]any{
					"stopped": true,
					"pid":     pid,
				})
			}

			fmt.Printf("Stopped watcher (PID %d)\n", pid)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current watcher status",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := w.DefaultConfigDir()

			pid, err := w.ReadPIDFile(configDir)
			running := err == nil

			// Check if process is actually running
			if running {
				process, err := os.FindProcess(pid)
				if err != nil {
					running = false
				} else {
					// Try sending signal 0 to check if process exists
					err = process.Signal(syscall.Signal(0))
					if err != nil {
						running = false
						w.RemovePIDFile(configDir)
					}
				}
			}

			jsonOut, _ := cmd.Flags().GetBool("json")

			if !running {
				if jsonOut {
					return json.NewEncoder(os.Stdout).Encode(map[string]any{"running": false})
				}
				fmt.Println("Watcher is not running")
				return nil
			}

			config, _ := w.LoadConfig(configDir)

			status := map[string]any{
				"running": true,
				"pid":     pid,
			}
			if config != nil {
				status["directories"] = config.Directories
				status["rules"] = len(config.Rules)
				status["recursive"] = config.Recursive
			}

			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(status)
			}

			fmt.Printf("Watcher is running (PID %d)\n", pid)
			if config != nil {
				fmt.Printf("  Directories: %s\n", strings.Join(config.Directories, ", "))
				fmt.Printf("  Rules:       %d\n", len(config.Rules))
				fmt.Printf("  Recursive:   %v\n", config.Recursive)
			}
			return nil
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the current watcher configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir := w.DefaultConfigDir()
			config, err := w.LoadConfig(configDir)
			if err != nil {
				return fmt.Errorf("no watcher configuration found (run 'biomark watch start' first)")
			}

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(os.Stdout).Encode(config)
			}

			fmt.Printf("Directories: %s\n", strings.Join(config.Directories, ", "))
			fmt.Printf("Recursive:   %v\n", config.Recursive)
			fmt.Printf("Debounce:    %dms\n", config.Debounce)
			fmt.Printf("Rules:       %d\n", len(config.Rules))
			for _, r := range config.Rules {
				fmt.Printf("  [%s] pattern=%q backend=%s enabled=%v\n",
					r.ID, r.Pattern, r.Backend, r.Enabled)
			}
			return nil
		},
	}
}
