// Package stats provides the "biomark stats" command over the local run log.
package stats

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/output"
	"github.com/scilens/biomark/internal/runlog"
)

// NewCommand returns the stats subcommand.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate statistics from the local run log",
		Long:  "Aggregates the run history recorded in ~/.biomark/runs.jsonl: runs, cells scanned, entities per label, average duration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			stats, err := runlog.DefaultStore().Summary()
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.PrintJSON("stats", stats)
			}

			if stats.TotalRuns == 0 {
				fmt.Println("No runs recorded yet. Run 'biomark highlight' or 'biomark scan' first.")
				return nil
			}

			totalEntities := 0
			for _, n := range stats.EntitiesFound {
				totalEntities += n
			}

			fmt.Println("BioMark Usage")
			fmt.Println()
			fmt.Println("SUMMARY")
			fmt.Printf("  Runs recorded:   %d\n", stats.TotalRuns)
			fmt.Printf("  Cells scanned:   %d\n", stats.CellsScanned)
			fmt.Printf("  Entities found:  %d\n", totalEntities)
			fmt.Printf("  Avg duration:    %.0f ms\n", stats.AvgDuration)
			fmt.Printf("  Errors:          %d\n", stats.ErrorCount)

			if len(stats.TopCommands) > 0 {
				fmt.Println()
				fmt.Println("BY COMMAND")
				commands := make([]string, 0, len(stats.TopCommands))
				for c := range stats.TopCommands {
					commands = append(commands, c)
				}
				sort.Strings(commands)
				tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				for _, c := range commands {
					fmt.Fprintf(tw, "  %s\t%d\n", c, stats.TopCommands[c])
				}
				tw.Flush()
			}

			if len(stats.EntitiesFound) > 0 {
				fmt.Println()
				fmt.Println("BY LABEL")
				tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
				for _, l := range entity.KnownLabels() {
					if n := stats.EntitiesFound[l]; n > 0 {
						fmt.Fprintf(tw, "  %s\t%d\n", l, n)
					}
				}
				tw.Flush()
			}

			return nil
		},
	}

	cmd.AddCommand(newClearCommand())

	return cmd
}

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the recorded run history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runlog.DefaultStore().Clear(); err != nil {
				return err
			}
			fmt.Println("Run history cleared")
			return nil
		},
	}
}
