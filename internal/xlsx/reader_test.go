package xlsx

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteAndRead(t *testing.T) {
	// Create a workbook, write it, then read it back
	original := &Workbook{
		Sheets: []Sheet{
			{
				Name: "Papers",
				Rows: [][]string{
					{"Title", "Abstract"},
					{"BRCA1 mutations in breast cancer", "BRCA1 mutations are associated with p53 pathway disruption."},
					{"EGFR targeted therapy", "EGFR overexpression responds to erlotinib treatment."},
				},
			},
		},
	}

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.xlsx")

	if err := WriteFile(original, path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("WriteFile did not create the file")
	}

	// Read back
	wb, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	if len(wb.Sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(wb.Sheets))
	}

	sheet := wb.Sheets[0]
	if sheet.Name != "Papers" {
		t.Errorf("expected sheet name 'Papers', got %q", sheet.Name)
	}

	if len(sheet.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(sheet.Rows))
	}

	if sheet.Rows[1][0] != "BRCA1 mutations in breast cancer" {
		t.Errorf("unexpected first data cell: %q", sheet.Rows[1][0])
	}
}

func TestGetSheet(t *testing.T) {
	wb := &Workbook{
		Sheets: []Sheet{
			{Name: "One"},
			{Name: "Two"},
		},
	}

	s, err := wb.GetSheet("Two")
	if err != nil {
		t.Fatalf("GetSheet failed: %v", err)
	}
	if s.Name != "Two" {
		t.Errorf("expected 'Two', got %q", s.Name)
	}

	_, err = wb.GetSheet("Missing")
	if err == nil {
		t.Error("expected error for missing sheet")
	}
}

func TestPickSheet(t *testing.T) {
	wb := &Workbook{
		Sheets: []Sheet{
			{Name: "First"},
			{Name: "Second"},
		},
	}

	s, err := wb.PickSheet("")
	if err != nil {
		t.Fatalf("PickSheet(\"\") failed: %v", err)
	}
	if s.Name != "First" {
		t.Errorf("expected first sheet by default, got %q", s.Name)
	}

	s, err = wb.PickSheet("Second")
	if err != nil {
		t.Fatalf("PickSheet failed: %v", err)
	}
	if s.Name != "Second" {
		t.Errorf("expected 'Second', got %q", s.Name)
	}

	empty := &Workbook{}
	if _, err := empty.PickSheet(""); err == nil {
		t.Error("expected error for empty workbook")
	}
}

func TestHeader(t *testing.T) {
	sheet := Sheet{
		Rows: [][]string{
			{"Title", "Abstract"},
			{"a", "b"},
		},
	}

	header := sheet.Header()
	if len(header) != 2 || header[0] != "Title" || header[1] != "Abstract" {
		t.Errorf("unexpected header: %v", header)
	}

	empty := Sheet{}
	if empty.Header() != nil {
		t.Error("expected nil header for empty sheet")
	}
}

func TestRowCount(t *testing.T) {
	sheet := Sheet{
		Rows: [][]string{
			{"A", "B"},
			{"C", "D"},
			{"", ""},
		},
	}

	if rc := sheet.RowCount(); rc != 2 {
		t.Errorf("expected 2 non-empty rows, got %d", rc)
	}
}

func TestReadFileNotFound(t *testing.T) {
	_, err := ReadFile("/nonexistent/file.xlsx")
	if err == nil {
		t.Error("expected error for missing file")
	}
}
