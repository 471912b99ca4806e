package extract

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDates_Formats(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []time.Time
	}{
		{
			name: "spanish month name",
			text: "La convocatoria cierra el 15 de marzo de 2026.",
			want: []time.Time{date(2026, time.March, 15)},
		},
		{
			name: "spanish with del",
			text: "Cierre de postulaciones: 18 de febrero del 2026",
			want: []time.Time{date(2026, time.February, 18)},
		},
		{
			name: "numeric slash and dash",
			text: "Del 01/02/2026 al 28-02-2026",
			want: []time.Time{date(2026, time.February, 1), date(2026, time.February, 28)},
		},
		{
			name: "iso format",
			text: "Updated 2025-11-30 by the office",
			want: []time.Time{date(2025, time.November, 30)},
		},
		{
			name: "iso year out of range ignored",
			text: "Reference 1999-05-05 and 2031-01-01",
			want: nil,
		},
		{
			name: "english month name",
			text: "Applications close March 15, 2026 at noon",
			want: []time.Time{date(2026, time.March, 15)},
		},
		{
			name: "duplicates collapse",
			text: "15/03/2026 o sea el 15 de marzo de 2026",
			want: []time.Time{date(2026, time.March, 15)},
		},
		{
			name: "no dates",
			text: "sin fechas por ahora",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dates(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("Dates(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Errorf("date %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDates_InvalidCalendarDatesDropped(t *testing.T) {
	// 31/02/2025 is syntactically plausible but not a real date; the valid
	// date in the same string must still come through.
	got := Dates("entre el 31/02/2025 y el 15/03/2025")
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 date, got %v", got)
	}
	if !got[0].Equal(date(2025, time.March, 15)) {
		t.Errorf("got %s, want 2025-03-15", got[0])
	}
}

func TestDates_Sorted(t *testing.T) {
	got := Dates("10 de junio de 2026, luego 2025-01-02, y closes May 5, 2025")
	if len(got) != 3 {
		t.Fatalf("expected 3 dates, got %v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Before(got[i-1]) {
			t.Errorf("dates not sorted: %v", got)
		}
	}
}

func TestFindDeadline(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		want   time.Time
		wantOK bool
	}{
		{
			name:   "spanish deadline keyword",
			text:   "Importante: fecha límite: 15 de marzo de 2026 para postular.",
			want:   date(2026, time.March, 15),
			wantOK: true,
		},
		{
			name:   "latest date in keyword window wins",
			text:   "cierre: del 01/03/2026 al 20/03/2026",
			want:   date(2026, time.March, 20),
			wantOK: true,
		},
		{
			name:   "english keyword",
			text:   "The closing date is June 1, 2026.",
			want:   date(2026, time.June, 1),
			wantOK: true,
		},
		{
			name:   "fallback to latest date in full text",
			text:   "Evento el 10/01/2026. Publicado el 05/01/2026.",
			want:   date(2026, time.January, 10),
			wantOK: true,
		},
		{
			name:   "empty text",
			text:   "",
			wantOK: false,
		},
		{
			name:   "no dates at all",
			text:   "fecha límite por confirmar",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FindDeadline(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("FindDeadline ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("FindDeadline = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFindOpeningDate(t *testing.T) {
	got, ok := FindOpeningDate("Apertura: 1 de febrero de 2026. Cierre: 30 de abril de 2026.")
	if !ok {
		t.Fatal("expected an opening date")
	}
	if !got.Equal(date(2026, time.February, 1)) {
		t.Errorf("got %s, want 2026-02-01", got)
	}

	// No whole-text fallback: a date without an opening keyword nearby is
	// not an opening date.
	if _, ok := FindOpeningDate("solo una fecha suelta 15/05/2026 sin contexto"); ok {
		t.Error("expected no opening date without keyword")
	}
}

func TestFindDeadline_WindowExcludesDistantDates(t *testing.T) {
	// A date far beyond the keyword window must not be attributed to it;
	// it is only reachable through the whole-text fallback (which returns
	// the latest date).
	padding := make([]byte, 300)
	for i := range padding {
		padding[i] = 'x'
	}
	text := "plazo indefinido " + string(padding) + " 15/03/2026"
	got, ok := FindDeadline(text)
	if !ok {
		t.Fatal("expected fallback deadline")
	}
	if !got.Equal(date(2026, time.March, 15)) {
		t.Errorf("got %s, want fallback 2026-03-15", got)
	}
}
