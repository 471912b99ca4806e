package ledger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mateobel/convoscan/internal/models"
)

func TestCSVBackendMissingFileIsEmpty(t *testing.T) {
	b := NewCSVBackend(filepath.Join(t.TempDir(), "nope.csv"))
	records, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("Load() returned %d records, want 0", len(records))
	}
}

func TestCSVBackendRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "opportunities.csv")
	b := NewCSVBackend(path)

	closes := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	want := []models.Opportunity{
		{
			ID:                1,
			DetectedOn:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Title:             "Beca de doctorado, cohorte 2026",
			Entity:            "Minciencias",
			Kind:              models.KindScholarship,
			Source:            "Minciencias",
			URL:               "https://example.org/beca",
			ClosesOn:          &closes,
			Amount:            "COP $4.725.000",
			KeyRequirements:   "Estar matriculado; aval del director",
			RequiredDocuments: "Carta de motivación",
			Relevance:         models.RelevanceHigh,
			Status:            models.StatusNew,
			Notes:             "línea \"fortalecimiento\"",
		},
		{
			ID:         2,
			DetectedOn: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			Title:      "Pasantía sin fecha",
			Entity:     "Fulbright",
			Kind:       models.KindInternship,
			Status:     models.StatusReviewed,
		},
	}

	if err := b.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := b.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load() returned %d records, want %d", len(got), len(want))
	}

	for i := range want {
		w, g := want[i], got[i]
		if g.ID != w.ID || g.Title != w.Title || g.Entity != w.Entity ||
			g.Kind != w.Kind || g.Amount != w.Amount || g.Notes != w.Notes ||
			g.Relevance != w.Relevance || g.Status != w.Status {
			t.Errorf("record %d mismatch:\n got %+v\nwant %+v", i, g, w)
		}
		if !g.DetectedOn.Equal(w.DetectedOn) {
			t.Errorf("record %d DetectedOn = %v, want %v", i, g.DetectedOn, w.DetectedOn)
		}
	}

	if got[0].ClosesOn == nil || !got[0].ClosesOn.Equal(closes) {
		t.Errorf("record 0 ClosesOn = %v, want %v", got[0].ClosesOn, closes)
	}
	if got[1].ClosesOn != nil {
		t.Errorf("record 1 ClosesOn = %v, want nil", got[1].ClosesOn)
	}
	if got[1].OpensOn != nil {
		t.Errorf("record 1 OpensOn = %v, want nil", got[1].OpensOn)
	}
}

func TestCSVBackendRejectsMalformedRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")

	header := strings.Join(models.Columns, ",")
	row := "not-a-number,2026-03-01,Title,Entity,Scholarship,src,url,,,,,,Low,New,"
	if err := os.WriteFile(path, []byte(header+"\n"+row+"\n"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	if _, err := NewCSVBackend(path).Load(); err == nil {
		t.Error("Load() on malformed ID succeeded, want error")
	}
}
