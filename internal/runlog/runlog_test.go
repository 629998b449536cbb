package runlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/scilens/biomark/internal/entity"
)

func TestRecordAppends(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Path: filepath.Join(dir, "runs.jsonl"), MaxSize: 10 * 1024 * 1024}

	s.Record(Entry{RunID: "a", Timestamp: time.Now(), Command: "highlight", DurationMs: 10})
	s.Record(Entry{RunID: "b", Timestamp: time.Now(), Command: "scan", DurationMs: 20})

	data, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty run log")
	}
}

func TestNewEntryAssignsRunID(t *testing.T) {
	a := NewEntry("highlight")
	b := NewEntry("highlight")
	if a.RunID == "" || a.RunID == b.RunID {
		t.Errorf("expected distinct run IDs, got %q and %q", a.RunID, b.RunID)
	}
	if a.Command != "highlight" {
		t.Errorf("expected command highlight, got %q", a.Command)
	}
}

func TestSummaryAggregates(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Path: filepath.Join(dir, "runs.jsonl"), MaxSize: 10 * 1024 * 1024}

	s.Record(Entry{Command: "highlight", Cells: 10, DurationMs: 100,
		Entities: map[entity.Label]int{entity.LabelGene: 4, entity.LabelDisease: 1}})
	s.Record(Entry{Command: "highlight", Cells: 5, DurationMs: 200,
		Entities: map[entity.Label]int{entity.LabelGene: 2}})
	s.Record(Entry{Command: "scan", Cells: 3, DurationMs: 300, Err: "backend unreachable"})

	stats, err := s.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRuns != 3 {
		t.Errorf("expected 3 runs, got %d", stats.TotalRuns)
	}
	if stats.TopCommands["highlight"] != 2 {
		t.Errorf("expected 2 highlight runs, got %d", stats.TopCommands["highlight"])
	}
	if stats.CellsScanned != 18 {
		t.Errorf("expected 18 cells, got %d", stats.CellsScanned)
	}
	if stats.EntitiesFound[entity.LabelGene] != 6 {
		t.Errorf("expected 6 genes, got %d", stats.EntitiesFound[entity.LabelGene])
	}
	if stats.ErrorCount != 1 {
		t.Errorf("expected 1 error, got %d", stats.ErrorCount)
	}
	if stats.AvgDuration != 200.0 {
		t.Errorf("expected avg 200ms, got %.1f", stats.AvgDuration)
	}
}

func TestSummaryEmptyStore(t *testing.T) {
	s := &Store{Path: "/nonexistent/runs.jsonl", MaxSize: 10 * 1024 * 1024}
	stats, err := s.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalRuns != 0 {
		t.Errorf("expected 0 runs, got %d", stats.TotalRuns)
	}
}

func TestRotate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")

	data := make([]byte, 1024)
	for i := range data {
		data[i] = 'x'
	}
	os.WriteFile(path, data, 0644)

	s := &Store{Path: path, MaxSize: 100}
	if err := s.Rotate(); err != nil {
		t.Fatal(err)
	}

	info, _ := os.Stat(path)
	if info.Size() != 0 {
		t.Errorf("expected truncated file, got %d bytes", info.Size())
	}
}

func TestRotateUnderLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")
	os.WriteFile(path, []byte("small"), 0644)

	s := &Store{Path: path, MaxSize: 10 * 1024 * 1024}
	s.Rotate()

	data, _ := os.ReadFile(path)
	if string(data) != "small" {
		t.Error("should not truncate file under limit")
	}
}

func TestStoreCreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	s := &Store{Path: filepath.Join(dir, "sub", "deep", "runs.jsonl"), MaxSize: 10 * 1024 * 1024}
	s.Record(Entry{Command: "highlight"})

	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		t.Error("expected file to be created in nested directory")
	}
}

func TestClear(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")
	os.WriteFile(path, []byte("data\n"), 0644)

	s := &Store{Path: path}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if len(data) != 0 {
		t.Error("expected empty file after clear")
	}
}
