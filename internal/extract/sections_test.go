package extract

import (
	"strings"
	"testing"
)

func TestRequirements(t *testing.T) {
	text := `Convocatoria de movilidad doctoral.

Requisitos: estar matriculado en un programa de doctorado de una universidad
colombiana y contar con aval del director de tesis.

CRONOGRAMA
Apertura: enero`

	got := Requirements(text)
	if got == "" {
		t.Fatal("expected a requirements excerpt")
	}
	if !strings.Contains(got, "programa de doctorado") {
		t.Errorf("excerpt missing requirement body: %q", got)
	}
	if strings.Contains(got, "CRONOGRAMA") {
		t.Errorf("excerpt should stop before the next section header: %q", got)
	}
}

func TestRequirements_UppercaseKeywordAfterLengthShiftingRunes(t *testing.T) {
	// The two İ runes shrink when lowercased, so any offset computed on a
	// lowercased copy would be misaligned against the original text.
	text := "İNFORMACİÓN GENERAL del programa.\n\nREQUISITOS: tener título de maestría y experiencia investigativa.\n\nCRONOGRAMA\nResultados en abril."

	got := Requirements(text)
	if got == "" {
		t.Fatal("expected a requirements excerpt")
	}
	if !strings.HasPrefix(got, "tener título") {
		t.Errorf("excerpt misaligned, got %q", got)
	}
	if strings.Contains(got, "CRONOGRAMA") {
		t.Errorf("excerpt should stop before the next section header: %q", got)
	}
}

func TestRequirements_TooShortIgnored(t *testing.T) {
	if got := Requirements("Requisitos: ver web."); got != "" {
		t.Errorf("short chunk should be dropped, got %q", got)
	}
}

func TestRequirements_CapsAtThreeExcerpts(t *testing.T) {
	section := "Requisitos: tener un promedio sobresaliente y carta de motivación vigente.\n\n"
	text := strings.Repeat(section, 5)

	got := Requirements(text)
	if got == "" {
		t.Fatal("expected excerpts")
	}
	if n := len(strings.Split(got, "; ")); n > 3 {
		t.Errorf("expected at most 3 excerpts, got %d", n)
	}
}

func TestDocuments(t *testing.T) {
	text := `Documentos requeridos: copia del diploma, certificado de notas y
carta de aceptación de la universidad de destino.

Mayor información en la página oficial.`

	got := Documents(text)
	if !strings.Contains(got, "copia del diploma") {
		t.Errorf("expected document list excerpt, got %q", got)
	}
}

func TestDocuments_NoMatch(t *testing.T) {
	if got := Documents("texto sin listado alguno"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestFromText(t *testing.T) {
	text := `Beca de investigación. Apertura: 1 de febrero de 2026.
Fecha límite: 30 de abril de 2026. Monto: $10.000.000.

Requisitos: ser estudiante de doctorado en psicología con promedio mínimo de cuatro punto cero.`

	data := FromText(text)
	if data.OpensOn == nil || data.OpensOn.Month() != 2 {
		t.Errorf("opening date = %v", data.OpensOn)
	}
	if data.ClosesOn == nil || data.ClosesOn.Month() != 4 {
		t.Errorf("close date = %v", data.ClosesOn)
	}
	if data.Amount != "COP $10.000.000" {
		t.Errorf("amount = %q", data.Amount)
	}
	if !strings.Contains(data.KeyRequirements, "doctorado") {
		t.Errorf("requirements = %q", data.KeyRequirements)
	}
}

func TestPDFText_MalformedInputReturnsError(t *testing.T) {
	if _, err := PDFText([]byte("definitely not a pdf")); err == nil {
		t.Error("expected an error for malformed input")
	}
}
