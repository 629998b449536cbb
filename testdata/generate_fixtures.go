//go:build ignore

// This program generates test fixture files for biomark.
package main

import (
	"fmt"
	"os"

	"github.com/scilens/biomark/internal/xlsx"
)

func main() {
	if err := generateXlsx(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sample.xlsx: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Test fixtures generated successfully.")
}

func generateXlsx() error {
	wb := &xlsx.Workbook{
		Sheets: []xlsx.Sheet{
			{
				Name: "Papers",
				Rows: [][]string{
					{"Title", "Abstract", "Notes"},
					{
						"BRCA1 mutations in breast cancer",
						"BRCA1 mutations are associated with p53 pathway disruption in breast cancer. The EGFR protein shows overexpression in lung cancer patients.",
						"cohort study",
					},
					{
						"p53 pathway analysis",
						"Investigation of p53 tumor suppressor gene mutations in colorectal cancer. TP53 mutations lead to loss of DNA damage response.",
						"",
					},
					{
						"EGFR targeted therapy",
						"EGFR overexpression in non-small cell lung cancer patients responds to erlotinib treatment. HER2 protein levels correlate with prognosis.",
						"phase II trial",
					},
					{
						"Oncogene expression study",
						"MYC oncogene amplification drives tumor cell proliferation. KRAS mutations are frequently found in pancreatic adenocarcinoma.",
						"",
					},
					{
						"Alzheimer's disease biomarkers",
						"Amyloid beta plaques and tau protein aggregation are hallmarks of Alzheimer's disease. ApoE4 allele increases disease risk.",
						"review",
					},
				},
			},
			{
				Name: "Metadata",
				Rows: [][]string{
					{"Field", "Value"},
					{"Source", "PubMed export"},
					{"Rows", "5"},
					{"Curated", "2024-11-02"},
				},
			},
		},
	}

	return xlsx.WriteFile(wb, "testdata/sample.xlsx")
}
