// Package demo provides the "biomark demo" command: an end-to-end
// recognition test on five canonical sample sentences.
package demo

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/extract"
	"github.com/scilens/biomark/internal/ner"
	"github.com/scilens/biomark/internal/output"
)

// sampleTexts are the canonical demo sentences. Each exercises a different
// mix of genes, proteins, chemicals, and diseases.
var sampleTexts = []string{
	"BRCA1 mutations are associated with p53 pathway disruption in breast cancer.",
	"The EGFR protein shows overexpression in lung cancer patients treated with erlotinib.",
	"TP53 mutations lead to loss of DNA damage response and increased cancer risk.",
	"MYC oncogene amplification drives tumor cell proliferation in various cancers.",
	"Alzheimer's disease is characterized by amyloid beta plaques and tau protein aggregation.",
}

type sampleResult struct {
	Text     string         `json:"text"`
	Entities []entity.Match `json:"entities"`
}

// NewCommand returns the demo subcommand.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the entity recognition demo on sample sentences",
		Long:  "Annotates five built-in biomedical sentences and prints the recognized entities, summary statistics, and the color key.",
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")
			backendName, _ := cmd.Flags().GetString("backend")
			modelName, _ := cmd.Flags().GetString("model")

			backend, err := ner.NewBackend(backendName, modelName)
			if err != nil {
				return err
			}
			ext := &extract.Extractor{Backend: backend}

			results := make([]sampleResult, 0, len(sampleTexts))
			byLabel := make(map[entity.Label][]string)
			total := 0

			for _, text := range sampleTexts {
				matches, err := ext.AnnotateText(cmd.Context(), text)
				if err != nil {
					return err
				}
				results = append(results, sampleResult{Text: text, Entities: matches})
				total += len(matches)
				for _, m := range matches {
					byLabel[m.Label] = append(byLabel[m.Label], m.Text)
				}
			}

			if jsonFlag {
				totals := make(map[entity.Label]int, len(byLabel))
				for l, texts := range byLabel {
					totals[l] = len(texts)
				}
				return output.PrintJSON("demo", map[string]any{
					"backend": backend.Name(),
					"model":   backend.Model(),
					"samples": results,
					"total":   total,
					"labels":  totals,
				})
			}

			rule := strings.Repeat("=", 60)
			thin := strings.Repeat("-", 40)

			fmt.Println(rule)
			fmt.Println("DEMO: Gene/Protein Recognition Test")
			fmt.Println(rule)

			fmt.Println("\n1. Text Analysis Results:")
			fmt.Println(thin)
			for i, r := range results {
				fmt.Printf("\nSample %d:\n", i+1)
				fmt.Printf("Text: %s\n", r.Text)
				fmt.Printf("Found: %d entities\n", len(r.Entities))
				for _, m := range r.Entities {
					fmt.Printf("  -> '%s' [%s] (pos: %d-%d)\n", m.Text, labelSprint(m.Label), m.Start, m.End)
				}
			}

			fmt.Println("\n2. Summary Statistics:")
			fmt.Println(thin)
			fmt.Printf("Total entities found: %d\n", total)
			for _, l := range entity.KnownLabels() {
				texts := byLabel[l]
				if len(texts) == 0 {
					continue
				}
				unique := uniqueStrings(texts)
				fmt.Printf("%s: %d total, %d unique\n", l, len(texts), len(unique))
				if len(unique) > 3 {
					unique = unique[:3]
				}
				fmt.Printf("  Examples: %s\n", strings.Join(unique, ", "))
			}

			fmt.Println("\n3. Available Entity Types:")
			fmt.Println(thin)
			fmt.Printf("  %s\n", color.New(color.FgYellow).Sprint("Yellow - Genes and gene products"))
			fmt.Printf("  %s\n", color.New(color.FgGreen).Sprint("Green - Proteins"))
			fmt.Printf("  %s\n", color.New(color.FgRed).Sprint("Orange - Chemical compounds"))
			fmt.Printf("  %s\n", color.New(color.FgMagenta).Sprint("Pink - Diseases and conditions"))

			fmt.Println("\n" + rule)
			fmt.Println("Demo completed! Try with your own Excel files:")
			fmt.Println("biomark sample && biomark highlight sample_data.xlsx")
			fmt.Println(rule)
			return nil
		},
	}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
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
