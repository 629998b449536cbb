// Package legend provides the "biomark legend" command.
package legend

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/scilens/biomark/internal/config"
	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/output"
)

// NewCommand returns the legend subcommand.
func NewCommand() *cobra.Command {
	var paletteFile string

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Show the label colors used for highlighting",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			path := paletteFile
			if path == "" {
				if cfg, err := config.Load(); err == nil {
					path = cfg.Highlight.Palette
				}
			}
			palette := entity.DefaultPalette()
			if path != "" {
				var err error
				palette, err = entity.LoadPalette(path)
				if err != nil {
					return err
				}
			}

			if jsonFlag {
				rows := make([]map[string]string, 0, len(entity.KnownLabels()))
				for _, l := range entity.KnownLabels() {
					rows = append(rows, map[string]string{
						"label":       string(l),
						"color":       palette.Color(l),
						"description": l.Description(),
					})
				}
				return output.PrintJSON("legend", rows)
			}

			fmt.Println("Highlight Legend:")
			w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
			for _, l := range entity.KnownLabels() {
				fmt.Fprintf(w, "  %s\t%s\t%s\n", l, palette.Color(l), l.Description())
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&paletteFile, "palette", "", "YAML palette file overriding the default colors")

	return cmd
}
