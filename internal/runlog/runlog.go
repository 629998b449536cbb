// Package runlog keeps a local history of annotation runs so `biomark stats`
// can answer how much has been scanned and found over time.
package runlog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/scilens/biomark/internal/entity"
)

// Entry records one highlight, scan, or batch-item run.
type Entry struct {
	RunID      string               `json:"run_id"`
	Timestamp  time.Time            `json:"ts"`
	Command    string               `json:"cmd"`
	Input      string               `json:"in,omitempty"`
	Output     string               `json:"out,omitempty"`
	Backend    string               `json:"backend,omitempty"`
	Model      string               `json:"model,omitempty"`
	Cells      int                  `json:"cells,omitempty"`
	Entities   map[entity.Label]int `json:"entities,omitempty"`
	DurationMs int64                `json:"ms"`
	Err        string               `json:"err,omitempty"`
}

// NewEntry starts an entry with a fresh run ID and the current time.
func NewEntry(command string) Entry {
	return Entry{
		RunID:     uuid.NewString(),
		Timestamp: time.Now(),
		Command:   command,
	}
}

// Stats holds aggregated history across all recorded runs.
type Stats struct {
	TotalRuns     int                  `json:"total_runs"`
	TopCommands   map[string]int       `json:"top_commands"`
	CellsScanned  int                  `json:"cells_scanned"`
	EntitiesFound map[entity.Label]int `json:"entities_found"`
	AvgDuration   float64              `json:"avg_duration_ms"`
	ErrorCount    int                  `json:"error_count"`
}

// Store manages the local run history (~/.biomark/runs.jsonl).
type Store struct {
	Path    string
	MaxSize int64 // default 10MB
}

// DefaultStore returns a Store at the default location.
func DefaultStore() *Store {
	home, _ := os.UserHomeDir()
	return &Store{
		Path:    filepath.Join(home, ".biomark", "runs.jsonl"),
		MaxSize: 10 * 1024 * 1024,
	}
}

// Record appends an entry to the history. Non-blocking, best-effort.
func (s *Store) Record(e Entry) {
	dir := filepath.Dir(s.Path)
	_ = os.MkdirAll(dir, 0755)
	_ = s.Rotate()

	f, err := os.OpenFile(s.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	data = append(data, '\n')
	_, _ = f.Write(data)
}

// Summary returns aggregated stats from the history.
func (s *Store) Summary() (*Stats, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return emptyStats(), nil
		}
		return nil, err
	}

	stats := emptyStats()
	var totalDuration int64

	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		stats.TotalRuns++
		stats.TopCommands[e.Command]++
		stats.CellsScanned += e.Cells
		for label, n := range e.Entities {
			stats.EntitiesFound[label] += n
		}
		totalDuration += e.DurationMs
		if e.Err != "" {
			stats.ErrorCount++
		}
	}

	if stats.TotalRuns > 0 {
		stats.AvgDuration = float64(totalDuration) / float64(stats.TotalRuns)
	}

	return stats, nil
}

func emptyStats() *Stats {
	return &Stats{
		TopCommands:   make(map[string]int),
		EntitiesFound: make(map[entity.Label]int),
	}
}

// Size returns the size of the history file in bytes.
func (s *Store) Size() int64 {
	info, err := os.Stat(s.Path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Rotate truncates the history when it exceeds MaxSize.
func (s *Store) Rotate() error {
	info, err := os.Stat(s.Path)
	if err != nil {
		return nil
	}
	if info.Size() <= s.MaxSize {
		return nil
	}
	return os.Truncate(s.Path, 0)
}

// Clear removes all run history.
func (s *Store) Clear() error {
	if _, err := os.Stat(s.Path); os.IsNotExist(err) {
		return nil
	}
	return os.Truncate(s.Path, 0)
}
