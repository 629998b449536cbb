package highlight

import (
	"crypto/sha256"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/xlsx"
	"github.com/xuri/excelize/v2"
)

func writeFixture(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "papers.xlsx")
	wb := &xlsx.Workbook{
		Sheets: []xlsx.Sheet{{
			Name: "Papers",
			Rows: [][]string{
				{"Title", "Abstract"},
				{"BRCA1 study", "BRCA1 variants drive breast cancer risk."},
				{"Kinase review", "Imatinib inhibits BCR-ABL."},
				{"Plain row", "Nothing to see here."},
			},
		}},
	}
	if err := xlsx.WriteFile(wb, path); err != nil {
		t.Fatalf("could not write fixture: %v", err)
	}
	return path
}

func fixtureMatches() []entity.CellMatch {
	return []entity.CellMatch{
		{Match: entity.Match{Text: "BRCA1", Label: entity.LabelGene, Start: 0, End: 5}, Row: 2, Column: "Title", CellText: "BRCA1 study"},
		{Match: entity.Match{Text: "BRCA1", Label: entity.LabelGene, Start: 0, End: 5}, Row: 2, Column: "Abstract", CellText: "BRCA1 variants drive breast cancer risk."},
		{Match: entity.Match{Text: "breast cancer", Label: entity.LabelDisease, Start: 21, End: 34}, Row: 2, Column: "Abstract", CellText: "BRCA1 variants drive breast cancer risk."},
		{Match: entity.Match{Text: "Imatinib", Label: entity.LabelChemical, Start: 0, End: 8}, Row: 3, Column: "Abstract", CellText: "Imatinib inhibits BCR-ABL."},
	}
}

// fillColor reads the fill color of a cell from a saved workbook.
func fillColor(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	styleID, err := f.GetCellStyle(sheet, cell)
	if err != nil {
		t.Fatalf("could not read style of %s: %v", cell, err)
	}
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("could not load style %d: %v", styleID, err)
	}
	if len(style.Fill.Color) == 0 {
		return ""
	}
	return strings.ToUpper(style.Fill.Color[0])
}

func TestApplyPaintsMatchedCells(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	output := filepath.Join(dir, "papers_highlighted.xlsx")

	result, err := Apply(Options{InputPath: input, OutputPath: output}, fixtureMatches())
	if err != nil {
		t.Fatal(err)
	}
	// A2, B2 (collision), B3.
	if result.PaintedCells != 3 {
		t.Errorf("expected 3 painted cells, got %d", result.PaintedCells)
	}

	f, err := excelize.OpenFile(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := fillColor(t, f, "Papers", "A2"); !strings.HasSuffix(got, "FFFF00") {
		t.Errorf("expected gene fill FFFF00 on A2, got %q", got)
	}
	if got := fillColor(t, f, "Papers", "B3"); !strings.HasSuffix(got, "FFA07A") {
		t.Errorf("expected chemical fill FFA07A on B3, got %q", got)
	}
	// Unmatched cell stays unpainted.
	if got := fillColor(t, f, "Papers", "A4"); got != "" && strings.HasSuffix(got, "FFFF00") {
		t.Errorf("expected no entity fill on A4, got %q", got)
	}
}

func TestApplyCollisionUsesPrecedence(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	output := filepath.Join(dir, "out.xlsx")

	// B2 has both a gene and a disease match; gene outranks disease.
	_, err := Apply(Options{InputPath: input, OutputPath: output}, fixtureMatches())
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := fillColor(t, f, "Papers", "B2"); !strings.HasSuffix(got, "FFFF00") {
		t.Errorf("expected gene fill to win the collision on B2, got %q", got)
	}
}

func TestApplyWritesLegend(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	output := filepath.Join(dir, "out.xlsx")

	result, err := Apply(Options{InputPath: input, OutputPath: output}, fixtureMatches())
	if err != nil {
		t.Fatal(err)
	}
	// 4 used rows, legend title 3 rows below.
	if result.LegendRow != 7 {
		t.Errorf("expected legend at row 7, got %d", result.LegendRow)
	}

	f, err := excelize.OpenFile(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	title, err := f.GetCellValue("Papers", "A7")
	if err != nil {
		t.Fatal(err)
	}
	if title != "Highlight Legend:" {
		t.Errorf("expected legend title in A7, got %q", title)
	}

	wantRows := []struct {
		cellA, wantA, cellB, wantB string
	}{
		{"A8", "Gene/Gene Product", "B8", "(GENE_OR_GENE_PRODUCT)"},
		{"A9", "Protein", "B9", "(PROTEIN)"},
		{"A10", "Chemical", "B10", "(CHEMICAL)"},
		{"A11", "Disease", "B11", "(DISEASE)"},
	}
	for _, w := range wantRows {
		gotA, _ := f.GetCellValue("Papers", w.cellA)
		if gotA != w.wantA {
			t.Errorf("expected %q in %s, got %q", w.wantA, w.cellA, gotA)
		}
		gotB, _ := f.GetCellValue("Papers", w.cellB)
		if gotB != w.wantB {
			t.Errorf("expected %q in %s, got %q", w.wantB, w.cellB, gotB)
		}
	}

	// Legend descriptions carry their label's fill.
	if got := fillColor(t, f, "Papers", "A9"); !strings.HasSuffix(got, "90EE90") {
		t.Errorf("expected protein fill on legend row A9, got %q", got)
	}
}

func TestApplyLeavesInputUntouched(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	output := filepath.Join(dir, "out.xlsx")

	before, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Apply(Options{InputPath: input, OutputPath: output}, fixtureMatches()); err != nil {
		t.Fatal(err)
	}

	after, err := os.ReadFile(input)
	if err != nil {
		t.Fatal(err)
	}
	if sha256.Sum256(before) != sha256.Sum256(after) {
		t.Error("input file bytes changed during highlighting")
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("expected output file to exist: %v", err)
	}
}

func TestApplyRefusesSamePath(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)

	_, err := Apply(Options{InputPath: input, OutputPath: input}, nil)
	if err == nil {
		t.Fatal("expected error when output equals input")
	}
}

func TestApplyNoMatchesStillWritesLegend(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	output := filepath.Join(dir, "out.xlsx")

	result, err := Apply(Options{InputPath: input, OutputPath: output}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.PaintedCells != 0 {
		t.Errorf("expected 0 painted cells, got %d", result.PaintedCells)
	}

	f, err := excelize.OpenFile(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	title, _ := f.GetCellValue("Papers", "A7")
	if title != "Highlight Legend:" {
		t.Errorf("expected legend even without matches, got %q", title)
	}
}

func TestApplyCustomPalette(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)
	output := filepath.Join(dir, "out.xlsx")

	palette := entity.DefaultPalette()
	palette[entity.LabelGene] = "FF0000"

	_, err := Apply(Options{InputPath: input, OutputPath: output, Palette: palette}, fixtureMatches())
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenFile(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if got := fillColor(t, f, "Papers", "A2"); !strings.HasSuffix(got, "FF0000") {
		t.Errorf("expected overridden gene fill FF0000, got %q", got)
	}
}

func TestApplyUnknownSheet(t *testing.T) {
	dir := t.TempDir()
	input := writeFixture(t, dir)

	_, err := Apply(Options{InputPath: input, OutputPath: filepath.Join(dir, "out.xlsx"), SheetName: "Missing"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown sheet")
	}
	if !strings.Contains(err.Error(), "available sheets") {
		t.Errorf("error should list available sheets, got: %v", err)
	}
}

func TestDefaultOutputPath(t *testing.T) {
	if got := DefaultOutputPath("data.xlsx"); got != "data_highlighted.xlsx" {
		t.Errorf("expected data_highlighted.xlsx, got %s", got)
	}
	if got := DefaultOutputPath("dir/papers.xlsx"); got != "dir/papers_highlighted.xlsx" {
		t.Errorf("expected dir/papers_highlighted.xlsx, got %s", got)
	}
}
