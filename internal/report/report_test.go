package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/extract"
)

func sampleScan() *extract.ScanResult {
	return &extract.ScanResult{
		Sheet:   "Papers",
		Columns: []string{"Title", "Abstract"},
		Matches: []entity.CellMatch{
			{Match: entity.Match{Text: "BRCA1", Label: entity.LabelGene}, Row: 2, Column: "Title"},
			{Match: entity.Match{Text: "BRCA1", Label: entity.LabelGene}, Row: 2, Column: "Abstract"},
			{Match: entity.Match{Text: "breast cancer", Label: entity.LabelDisease}, Row: 2, Column: "Abstract"},
			{Match: entity.Match{Text: "imatinib", Label: entity.LabelChemical}, Row: 3, Column: "Abstract"},
		},
		Cells:   5,
		Skipped: 1,
	}
}

func TestBuild(t *testing.T) {
	r := Build("papers.xlsx", "scispacy", "en_ner_bionlp13cg_md", 4, sampleScan())

	if r.Total != 4 {
		t.Errorf("expected 4 entities, got %d", r.Total)
	}
	if len(r.Columns) != 2 {
		t.Fatalf("expected 2 column summaries, got %d", len(r.Columns))
	}
	if r.Columns[0].Column != "Title" || r.Columns[0].Total != 1 {
		t.Errorf("unexpected Title summary: %+v", r.Columns[0])
	}
	if r.Columns[1].Total != 3 {
		t.Errorf("expected 3 Abstract entities, got %d", r.Columns[1].Total)
	}

	// Labels come out in precedence order, zero counts dropped.
	if len(r.Labels) != 3 {
		t.Fatalf("expected 3 label totals, got %+v", r.Labels)
	}
	if r.Labels[0].Label != entity.LabelGene || r.Labels[0].Count != 2 {
		t.Errorf("expected gene first with 2, got %+v", r.Labels[0])
	}
	if r.Labels[1].Label != entity.LabelChemical {
		t.Errorf("expected chemical before disease, got %+v", r.Labels[1])
	}
}

func TestWriteText(t *testing.T) {
	r := Build("papers.xlsx", "scispacy", "en_ner_bionlp13cg_md", 4, sampleScan())

	var buf bytes.Buffer
	r.WriteText(&buf)
	out := buf.String()

	for _, want := range []string{
		"Loaded",
		"papers.xlsx",
		"Found entities:",
		"Column",
		"GENE_OR_GENE_PRODUCT: 1",
		"Skipped 1 empty cells",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextSkipsEmptyColumns(t *testing.T) {
	scan := sampleScan()
	scan.Columns = append(scan.Columns, "Year")
	r := Build("papers.xlsx", "scispacy", "en_ner_bionlp13cg_md", 4, scan)

	var buf bytes.Buffer
	r.WriteText(&buf)
	if strings.Contains(buf.String(), "'Year' results") {
		t.Error("columns without entities should not get a results block")
	}
}

func TestWriteMarkdown(t *testing.T) {
	r := Build("papers.xlsx", "scispacy", "en_ner_bionlp13cg_md", 4, sampleScan())

	var buf bytes.Buffer
	if err := r.WriteMarkdown(&buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Entity Scan Report",
		"## Entities by column",
		"| Abstract",
		"GENE_OR_GENE_PRODUCT",
		"## Totals",
		"Gene/Gene Product",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown report missing %q:\n%s", want, out)
		}
	}
}

func TestWriteMarkdownNoEntities(t *testing.T) {
	scan := &extract.ScanResult{Sheet: "Empty", Columns: []string{"Title"}}
	r := Build("empty.xlsx", "scispacy", "en_ner_bionlp13cg_md", 0, scan)

	var buf bytes.Buffer
	if err := r.WriteMarkdown(&buf); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "Entities by column") {
		t.Error("empty scan should not emit the per-column section")
	}
}
