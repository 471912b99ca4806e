package extract

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	// Colombian peso amounts with dot thousands separators: $4.725.000
	copAmountRe = regexp.MustCompile(`\$\s*([\d.]+(?:\.\d{3})+)`)
	// "13 millones de pesos", "4,5 millones"
	millionsRe = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*millones?\s*(?:de\s*pesos)?`)
)

var foreignCurrencyRes = []struct {
	code string
	re   *regexp.Regexp
}{
	{"USD", regexp.MustCompile(`(?i)USD\s*\$?\s*([\d,.]+)`)},
	{"EUR", regexp.MustCompile(`(?i)EUR\s*\$?\s*([\d,.]+)`)},
	{"GBP", regexp.MustCompile(`(?i)GBP\s*\$?\s*([\d,.]+)`)},
}

// Amount extracts a monetary description from free text. Patterns are
// tried in order and the first hit wins: peso amounts anchored on the
// currency sign, "N millones [de pesos]" phrases, then USD/EUR/GBP tagged
// numbers. Returns "" when nothing matches.
func Amount(text string) string {
	clean := strings.ReplaceAll(text, "\n", " ")

	if m := copAmountRe.FindStringSubmatch(clean); m != nil {
		return "COP $" + m[1]
	}

	if m := millionsRe.FindStringSubmatch(strings.ToLower(clean)); m != nil {
		return fmt.Sprintf("COP $%s millones", m[1])
	}

	for _, cur := range foreignCurrencyRes {
		if m := cur.re.FindStringSubmatch(clean); m != nil {
			value := strings.Trim(m[1], ",.")
			if value != "" {
				return cur.code + " " + value
			}
		}
	}

	return ""
}
