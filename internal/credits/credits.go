// Package credits tracks which URL every saved dataset image came from.
// The fetch pipeline writes the table; the app reads it for attribution.
package credits

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kpauljoseph/rockdeck/pkg/logger"
	"github.com/kpauljoseph/rockdeck/pkg/models"
)

type Table struct {
	records []models.CreditRecord
	byFile  map[string]models.CreditRecord
}

func NewTable() *Table {
	return &Table{byFile: make(map[string]models.CreditRecord)}
}

// Load reads a credits JSON file. Attribution is optional: a missing or
// malformed file is logged and an empty table returned, so the rest of the
// app keeps working without source links.
func Load(path string, log *logger.Logger) *Table {
	table := NewTable()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("credits unavailable, attribution disabled: %v", err)
		return table
	}

	var records []models.CreditRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Warn("credits file %s is malformed, attribution disabled: %v", path, err)
		return table
	}

	for _, rec := range records {
		table.Add(rec)
	}
	return table
}

func (t *Table) Add(rec models.CreditRecord) {
	t.records = append(t.records, rec)
	t.byFile[rec.File] = rec
}

// Lookup returns the attribution for a dataset-relative file path.
func (t *Table) Lookup(file string) (models.CreditRecord, bool) {
	if t == nil {
		return models.CreditRecord{}, false
	}
	rec, ok := t.byFile[file]
	return rec, ok
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// WriteJSON writes the table as an indented JSON array in insertion order.
func (t *Table) WriteJSON(path string) error {
	records := t.records
	if records == nil {
		records = []models.CreditRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credits: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write credits JSON: %w", err)
	}
	return nil
}

// WriteCSV writes the table with a rock,file,url header row.
func (t *Table) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create credits CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"rock", "file", "url"}); err != nil {
		return fmt.Errorf("failed to write credits CSV header: %w", err)
	}
	for _, rec := range t.records {
		if err := w.Write([]string{rec.Rock, rec.File, rec.URL}); err != nil {
			return fmt.Errorf("failed to write credits CSV row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
