// Package extract provides the "biomark extract" command for annotating
// free text.
package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/extract"
	"github.com/scilens/biomark/internal/ner"
	"github.com/scilens/biomark/internal/output"
)

// NewCommand returns the extract subcommand.
func NewCommand() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "extract [text]",
		Short: "Tag biomedical entities in free text",
		Long: `Annotates a single text with the configured NER backend and lists every
recognized gene, protein, chemical, and disease with its character offsets.

Text comes from the arguments, --file, or stdin:
  biomark extract "BRCA1 mutations increase breast cancer risk"
  biomark extract --file abstract.txt
  cat abstract.txt | biomark extract`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			backendName, _ := cmd.Flags().GetString("backend")
			modelName, _ := cmd.Flags().GetString("model")

			text, err := readInput(args, filePath)
			if err != nil {
				return err
			}

			backend, err := ner.NewBackend(backendName, modelName)
			if err != nil {
				return err
			}

			ext := &extract.Extractor{Backend: backend}
			matches, err := ext.AnnotateText(cmd.Context(), text)
			if err != nil {
				return err
			}

			if jsonFlag {
				return output.PrintJSON("extract", map[string]any{
					"backend":  backend.Name(),
					"model":    backend.Model(),
					"entities": matches,
					"count":    len(matches),
				})
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Found %d entities\n", len(matches))
			for _, m := range matches {
				fmt.Fprintf(&b, "  -> '%s' [%s] (pos: %d-%d)\n",
					m.Text, labelSprint(m.Label), m.Start, m.End)
			}
			return output.PageOrPrint(b.String())
		},
	}

	cmd.Flags().StringVar(&filePath, "file", "", "Read the text from a file")

	return cmd
}

func readInput(args []string, filePath string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("could not read file %s: %w", filePath, err)
		}
		return string(data), nil
	}

	stat, _ := os.Stdin.Stat()
	if (stat.Mode() & os.ModeCharDevice) != 0 {
		return "", fmt.Errorf("no input provided — pass text as an argument, use --file, or pipe content to stdin")
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("could not read from stdin: %w", err)
	}

	input := string(data)
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("input is empty")
	}

	return input, nil
}

func labelSprint(l entity.Label) string {
	switch l {
	case entity.LabelGene:
		return color.New(color.FgYellow).Sprint(string(l))
	case entity.LabelProtein:
		return color.New(color.FgGreen).Sprint(string(l))
	case entity.LabelChemical:
		return color.New(color.FgRed).Sprint(string(l))
	case entity.LabelDisease:
		return color.New(color.FgMagenta).Sprint(string(l))
	}
	return string(l)
}
