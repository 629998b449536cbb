// Package sample provides the "biomark sample" command for generating a
// test spreadsheet.
package sample

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scilens/biomark/internal/output"
	"github.com/scilens/biomark/internal/xlsx"
)

// Rows returns the canonical sample records: five paper titles with
// abstracts rich in genes, proteins, chemicals, and diseases.
func Rows() [][]string {
	return [][]string{
		{"Title", "Abstract"},
		{
			"BRCA1 mutations in breast cancer",
			"BRCA1 mutations are associated with p53 pathway disruption in breast cancer. The EGFR protein shows overexpression in lung cancer patients.",
		},
		{
			"p53 pathway analysis",
			"Investigation of p53 tumor suppressor gene mutations in colorectal cancer. TP53 mutations lead to loss of DNA damage response.",
		},
		{
			"EGFR targeted therapy",
			"EGFR overexpression in non-small cell lung cancer patients responds to erlotinib treatment. HER2 protein levels correlate with prognosis.",
		},
		{
			"Oncogene expression study",
			"MYC oncogene amplification drives tumor cell proliferation. KRAS mutations are frequently found in pancreatic adenocarcinoma.",
		},
		{
			"Alzheimer's disease biomarkers",
			"Amyloid beta plaques and tau protein aggregation are hallmarks of Alzheimer's disease. ApoE4 allele increases disease risk.",
		},
	}
}

// NewCommand returns the sample subcommand.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sample [out.xlsx]",
		Short: "Write a sample spreadsheet with biomedical text",
		Long:  "Creates a five-row Title/Abstract workbook to try the highlight and scan commands on.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonFlag, _ := cmd.Flags().GetBool("json")

			path := "sample_data.xlsx"
			if len(args) == 1 {
				path = args[0]
			}
			if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
				return fmt.Errorf("expected a .xlsx output path, got %q", path)
			}

			rows := Rows()
			wb := &xlsx.Workbook{
				Sheets: []xlsx.Sheet{{Name: "Sheet1", Rows: rows}},
			}
			if err := xlsx.WriteFile(wb, path); err != nil {
				return err
			}

			if jsonFlag {
				return output.PrintJSON("sample", map[string]any{
					"path":    path,
					"rows":    len(rows) - 1,
					"columns": rows[0],
				})
			}

			fmt.Printf("Sample data %s created successfully\n", path)
			fmt.Printf("  - Rows: %d\n", len(rows)-1)
			fmt.Printf("  - Columns: %v\n", rows[0])
			return nil
		},
	}
}
