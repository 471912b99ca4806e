// Package seed plants a starter set of known opportunities into a brand
// new ledger so the first scan does not begin from an empty register.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mateobel/convoscan/internal/models"
)

const dateLayout = "2006-01-02"

// record mirrors the JSON seed layout. Dates are plain YYYY-MM-DD strings
// so the file stays hand-editable.
type record struct {
	Title             string `json:"title"`
	Entity            string `json:"entity"`
	Kind              string `json:"kind,omitempty"`
	Source            string `json:"source,omitempty"`
	URL               string `json:"url,omitempty"`
	OpensOn           string `json:"opens_on,omitempty"`
	ClosesOn          string `json:"closes_on,omitempty"`
	Amount            string `json:"amount,omitempty"`
	KeyRequirements   string `json:"key_requirements,omitempty"`
	RequiredDocuments string `json:"required_documents,omitempty"`
	Relevance         string `json:"relevance,omitempty"`
	Notes             string `json:"notes,omitempty"`
}

// Load reads a JSON seed file into opportunity records. The records carry
// no IDs; they are meant to pass through the ledger's normal append path
// so numbering and dedup apply to them like to any scraped record. A
// missing file yields no records and no error.
func Load(path string) ([]models.Opportunity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading seed file %s: %w", path, err)
	}

	var raw []record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing seed file %s: %w", path, err)
	}

	ops := make([]models.Opportunity, 0, len(raw))
	for i, r := range raw {
		if r.Title == "" || r.Entity == "" {
			return nil, fmt.Errorf("seed record %d: title and entity are required", i)
		}

		op := models.Opportunity{
			Title:             r.Title,
			Entity:            r.Entity,
			Kind:              models.Kind(r.Kind),
			Source:            r.Source,
			URL:               r.URL,
			Amount:            r.Amount,
			KeyRequirements:   r.KeyRequirements,
			RequiredDocuments: r.RequiredDocuments,
			Relevance:         models.Relevance(r.Relevance),
			Notes:             r.Notes,
		}
		if op.Source == "" {
			op.Source = "seed"
		}

		if op.OpensOn, err = parseDate(r.OpensOn); err != nil {
			return nil, fmt.Errorf("seed record %d opens_on: %w", i, err)
		}
		if op.ClosesOn, err = parseDate(r.ClosesOn); err != nil {
			return nil, fmt.Errorf("seed record %d closes_on: %w", i, err)
		}

		ops = append(ops, op)
	}
	return ops, nil
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", s, err)
	}
	return &t, nil
}
