package scrape

import (
	"errors"
	"testing"

	"github.com/mateobel/convoscan/internal/config"
	"github.com/mateobel/convoscan/internal/models"
)

type stubExtractor struct {
	name string
	ops  []models.Opportunity
	err  error
}

func (s stubExtractor) Name() string { return s.name }
func (s stubExtractor) Extract(_ *Fetcher, _ config.Portal) ([]models.Opportunity, error) {
	return s.ops, s.err
}

func TestOrchestratorContinuesAfterPortalFailure(t *testing.T) {
	extractors := map[string]Extractor{
		"good": stubExtractor{name: "good", ops: []models.Opportunity{
			{Title: "Beca A", Entity: "good"},
			{Title: "Beca B", Entity: "good"},
		}},
		"broken": stubExtractor{name: "broken", err: errors.New("listing unreachable")},
		"empty":  stubExtractor{name: "empty"},
	}

	o := &Orchestrator{
		resolve:     func(p config.Portal) Extractor { return extractors[p.Name] },
		portalDelay: 0,
		enrich:      false,
	}

	portals := []config.Portal{
		{Name: "broken", URL: "https://broken.example.org"},
		{Name: "good", URL: "https://good.example.org"},
		{Name: "empty", URL: "https://empty.example.org"},
	}

	ops, stats := o.Run(portals)

	if len(ops) != 2 {
		t.Errorf("Run() returned %d records, want 2", len(ops))
	}
	if stats.Found != 2 {
		t.Errorf("stats.Found = %d, want 2", stats.Found)
	}
	if len(stats.Failed) != 1 || stats.Failed[0] != "broken" {
		t.Errorf("stats.Failed = %v, want [broken]", stats.Failed)
	}
	if stats.RunID == "" {
		t.Error("stats.RunID is empty")
	}
}

func TestForPortalResolvesVariants(t *testing.T) {
	tests := []struct {
		extractor string
		want      string
	}{
		{"minciencias", "minciencias"},
		{"ICETEX", "icetex"},
		{"fulbright", "fulbright"},
		{"univalle", "univalle"},
		{"generic", "generic"},
		{"", "generic"},
		{"somethingelse", "generic"},
	}

	for _, tt := range tests {
		got := ForPortal(config.Portal{Extractor: tt.extractor})
		if got.Name() != tt.want {
			t.Errorf("ForPortal(%q).Name() = %q, want %q", tt.extractor, got.Name(), tt.want)
		}
	}
}

func TestLooksLikeOpportunity(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Convocatoria para becas de doctorado 2026", true},
		{"Apoyo a la movilidad internacional de estudiantes", true},
		{"Contacto", false},
		{"beca", false}, // keyword but too short to be a call title
		{"Noticias institucionales de la semana", false},
	}

	for _, tt := range tests {
		if got := looksLikeOpportunity(tt.text); got != tt.want {
			t.Errorf("looksLikeOpportunity(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestAbsoluteURL(t *testing.T) {
	base := "https://example.org/convocatorias"

	tests := []struct {
		href string
		want string
	}{
		{"/becas/2026", "https://example.org/becas/2026"},
		{"https://other.org/call", "https://other.org/call"},
		{"#seccion", ""},
		{"javascript:void(0)", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := absoluteURL(base, tt.href); got != tt.want {
			t.Errorf("absoluteURL(%q) = %q, want %q", tt.href, got, tt.want)
		}
	}
}
