package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/mateobel/convoscan/internal/models"
)

const dateLayout = "2006-01-02"

// CSVBackend stores the ledger as a single CSV file with a fixed header
// row. A missing file is an empty ledger, not an error.
type CSVBackend struct {
	Path string
}

func NewCSVBackend(path string) *CSVBackend {
	return &CSVBackend{Path: path}
}

func (b *CSVBackend) Load() ([]models.Opportunity, error) {
	f, err := os.Open(b.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening %s: %w", b.Path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(models.Columns)

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", b.Path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	records := make([]models.Opportunity, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := rowToRecord(row)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", b.Path, i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (b *CSVBackend) Save(records []models.Opportunity) error {
	if dir := filepath.Dir(b.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	f, err := os.Create(b.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", b.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(recordToRow(rec)); err != nil {
			return fmt.Errorf("writing record %d: %w", rec.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", b.Path, err)
	}
	return nil
}

func recordToRow(rec models.Opportunity) []string {
	return []string{
		strconv.Itoa(rec.ID),
		formatDate(&rec.DetectedOn),
		rec.Title,
		rec.Entity,
		string(rec.Kind),
		rec.Source,
		rec.URL,
		formatDate(rec.OpensOn),
		formatDate(rec.ClosesOn),
		rec.Amount,
		rec.KeyRequirements,
		rec.RequiredDocuments,
		string(rec.Relevance),
		string(rec.Status),
		rec.Notes,
	}
}

func rowToRecord(row []string) (models.Opportunity, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return models.Opportunity{}, fmt.Errorf("bad ID %q: %w", row[0], err)
	}

	detected, err := parseDate(row[1])
	if err != nil {
		return models.Opportunity{}, fmt.Errorf("bad Detected_on: %w", err)
	}
	opens, err := parseDate(row[7])
	if err != nil {
		return models.Opportunity{}, fmt.Errorf("bad Opens_on: %w", err)
	}
	closes, err := parseDate(row[8])
	if err != nil {
		return models.Opportunity{}, fmt.Errorf("bad Closes_on: %w", err)
	}

	rec := models.Opportunity{
		ID:                id,
		Title:             row[2],
		Entity:            row[3],
		Kind:              models.Kind(row[4]),
		Source:            row[5],
		URL:               row[6],
		OpensOn:           opens,
		ClosesOn:          closes,
		Amount:            row[9],
		KeyRequirements:   row[10],
		RequiredDocuments: row[11],
		Relevance:         models.Relevance(row[12]),
		Status:            models.Status(row[13]),
		Notes:             row[14],
	}
	if detected != nil {
		rec.DetectedOn = *detected
	}
	return rec, nil
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return &t, nil
}
