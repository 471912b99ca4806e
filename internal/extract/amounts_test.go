package extract

import (
	"strings"
	"testing"
)

func TestAmount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "colombian peso with thousands dots",
			text: "El monto es de $4.725.000 para el ganador",
			want: "COP $4.725.000",
		},
		{
			name: "larger peso amount",
			text: "apoyo de hasta $13.000.000 por proyecto",
			want: "COP $13.000.000",
		},
		{
			name: "millones phrase",
			text: "financiación de 13 millones de pesos",
			want: "COP $13 millones",
		},
		{
			name: "millones with decimal",
			text: "Hasta 4,5 millones",
			want: "COP $4,5 millones",
		},
		{
			name: "usd tagged",
			text: "stipend of USD 25,000 per year",
			want: "USD 25,000",
		},
		{
			name: "eur tagged",
			text: "grant worth EUR 1.500",
			want: "EUR 1.500",
		},
		{
			name: "no amount",
			text: "no amount mentioned",
			want: "",
		},
		{
			name: "plain number is not an amount",
			text: "convocatoria 2026 para 150 estudiantes",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Amount(tt.text); got != tt.want {
				t.Errorf("Amount(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestAmount_FirstPatternWins(t *testing.T) {
	// COP sign pattern outranks the USD pattern when both appear.
	got := Amount("premio de $2.000.000 (aprox USD 500)")
	if !strings.HasPrefix(got, "COP $") {
		t.Errorf("expected COP-tagged amount, got %q", got)
	}
}
