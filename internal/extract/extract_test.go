package extract

import (
	"context"
	"strings"
	"testing"

	"github.com/scilens/biomark/internal/entity"
	"github.com/scilens/biomark/internal/xlsx"
)

// fakeBackend recognizes a fixed vocabulary and counts its calls.
type fakeBackend struct {
	vocab map[string]entity.Label
	calls int
}

func (f *fakeBackend) Annotate(ctx context.Context, text string) ([]entity.Match, error) {
	f.calls++
	var matches []entity.Match
	for term, label := range f.vocab {
		idx := strings.Index(text, term)
		if idx < 0 {
			continue
		}
		matches = append(matches, entity.Match{
			Text:  term,
			Label: label,
			Start: idx,
			End:   idx + len(term),
		})
	}
	return matches, nil
}

func (f *fakeBackend) Name() string  { return "fake" }
func (f *fakeBackend) Model() string { return "fake-v1" }

func testVocab() map[string]entity.Label {
	return map[string]entity.Label{
		"BRCA1":         entity.LabelGene,
		"p53":           entity.LabelProtein,
		"imatinib":      entity.LabelChemical,
		"breast cancer": entity.LabelDisease,
	}
}

func testSheet() *xlsx.Sheet {
	return &xlsx.Sheet{
		Name: "Sheet1",
		Rows: [][]string{
			{"Title", "Abstract", "Year"},
			{"BRCA1 study", "BRCA1 variants drive breast cancer risk.", "2019"},
			{"Kinase review", "imatinib targets the kinase domain.", "2020"},
			{"", "", "2021"},
			{"p53 function", "", "2022"},
		},
	}
}

func TestAnnotateTextEmptySkipsBackend(t *testing.T) {
	fb := &fakeBackend{vocab: testVocab()}
	e := &Extractor{Backend: fb}

	for _, text := range []string{"", "   ", "\t\n"} {
		matches, err := e.AnnotateText(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}
		if len(matches) != 0 {
			t.Errorf("expected no matches for %q, got %d", text, len(matches))
		}
	}
	if fb.calls != 0 {
		t.Errorf("expected 0 backend calls for empty text, got %d", fb.calls)
	}
}

func TestAnnotateTextFiltersUnknownLabels(t *testing.T) {
	fb := &fakeBackend{vocab: map[string]entity.Label{
		"BRCA1":  entity.LabelGene,
		"Boston": entity.Label("CITY"),
	}}
	e := &Extractor{Backend: fb}

	matches, err := e.AnnotateText(context.Background(), "BRCA1 research in Boston")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].Text != "BRCA1" {
		t.Errorf("expected BRCA1, got %s", matches[0].Text)
	}
}

func TestTargetColumnsDefault(t *testing.T) {
	header := []string{"Title", "Abstract", "Year"}
	cols := TargetColumns(header, nil)
	if len(cols) != 3 {
		t.Fatalf("expected all 3 columns, got %v", cols)
	}
	if cols[0] != "Title" || cols[2] != "Year" {
		t.Errorf("expected header order, got %v", cols)
	}
}

func TestTargetColumnsRequested(t *testing.T) {
	header := []string{"Title", "Abstract", "Year"}
	cols := TargetColumns(header, []string{"Abstract", "Title"})
	if len(cols) != 2 {
		t.Fatalf("expected 2 columns, got %v", cols)
	}
	if cols[0] != "Abstract" || cols[1] != "Title" {
		t.Errorf("expected requested order preserved, got %v", cols)
	}
}

func TestTargetColumnsIgnoresUnknown(t *testing.T) {
	header := []string{"Title", "Abstract"}
	cols := TargetColumns(header, []string{"Title", "Notes", "DOI"})
	if len(cols) != 1 || cols[0] != "Title" {
		t.Errorf("expected unknown columns dropped silently, got %v", cols)
	}
}

func TestTargetColumnsSkipsEmptyHeaderCells(t *testing.T) {
	header := []string{"Title", "", "Year"}
	cols := TargetColumns(header, nil)
	if len(cols) != 2 {
		t.Errorf("expected unnamed columns skipped, got %v", cols)
	}
}

func TestScanSheet(t *testing.T) {
	fb := &fakeBackend{vocab: testVocab()}
	e := &Extractor{Backend: fb}

	result, err := e.ScanSheet(context.Background(), testSheet(), []string{"Title", "Abstract"})
	if err != nil {
		t.Fatal(err)
	}

	// 8 data cells in Title+Abstract, 3 of them empty.
	if result.Cells != 5 {
		t.Errorf("expected 5 annotated cells, got %d", result.Cells)
	}
	if result.Skipped != 3 {
		t.Errorf("expected 3 skipped cells, got %d", result.Skipped)
	}
	if fb.calls != 5 {
		t.Errorf("expected 5 backend calls, got %d", fb.calls)
	}

	byLabel := map[entity.Label]int{}
	for _, m := range result.Matches {
		byLabel[m.Label]++
	}
	if byLabel[entity.LabelGene] != 2 {
		t.Errorf("expected 2 gene matches, got %d", byLabel[entity.LabelGene])
	}
	if byLabel[entity.LabelDisease] != 1 {
		t.Errorf("expected 1 disease match, got %d", byLabel[entity.LabelDisease])
	}
}

func TestScanSheetRowNumbers(t *testing.T) {
	fb := &fakeBackend{vocab: testVocab()}
	e := &Extractor{Backend: fb}

	result, err := e.ScanSheet(context.Background(), testSheet(), []string{"Title"})
	if err != nil {
		t.Fatal(err)
	}

	var p53Row int
	for _, m := range result.Matches {
		if m.Text == "p53" {
			p53Row = m.Row
		}
	}
	// "p53 function" is the fourth data row, so spreadsheet row 5.
	if p53Row != 5 {
		t.Errorf("expected p53 in row 5, got %d", p53Row)
	}
}

func TestScanSheetOnCellHook(t *testing.T) {
	fb := &fakeBackend{vocab: testVocab()}
	var seen []string
	e := &Extractor{
		Backend: fb,
		OnCell: func(column string, row int, found int) {
			seen = append(seen, column)
		},
	}

	_, err := e.ScanSheet(context.Background(), testSheet(), []string{"Abstract"})
	if err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 {
		t.Errorf("expected hook called for 2 non-empty cells, got %d", len(seen))
	}
}

func TestScanSheetNoTargetColumns(t *testing.T) {
	fb := &fakeBackend{vocab: testVocab()}
	e := &Extractor{Backend: fb}

	result, err := e.ScanSheet(context.Background(), testSheet(), []string{"DOI"})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Matches) != 0 || fb.calls != 0 {
		t.Error("expected no work when no requested column exists")
	}
}

func TestScanSheetEmptySheet(t *testing.T) {
	fb := &fakeBackend{vocab: testVocab()}
	e := &Extractor{Backend: fb}

	result, err := e.ScanSheet(context.Background(), &xlsx.Sheet{Name: "Empty"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Matches) != 0 {
		t.Errorf("expected no matches in empty sheet, got %d", len(result.Matches))
	}
}
