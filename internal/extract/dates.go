// Package extract holds the heuristic text extraction used to turn
// unstructured convocatoria pages and PDFs into structured fields. All
// functions are pure and best-effort: no match means an absent value,
// never an error.
package extract

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

var spanishMonths = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"octubre": time.October, "noviembre": time.November, "diciembre": time.December,
}

var englishMonths = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July,
	"aug": time.August, "sep": time.September, "oct": time.October,
	"nov": time.November, "dec": time.December,
}

var (
	// 15 de marzo de 2026, 18 de febrero del 2026
	spanishDateRe = regexp.MustCompile(`(\d{1,2})\s+de\s+(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre)\s+(?:del?\s+)?(\d{4})`)
	// 15/03/2026, 15-03-2026
	numericDateRe = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)
	// 2026-03-15
	isoDateRe = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
	// March 15, 2026 and Mar 15 2026
	englishDateRe = regexp.MustCompile(`(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\s+(\d{1,2}),?\s+(\d{4})`)
)

// makeDate validates a calendar date candidate. Numerically plausible but
// calendar-invalid combinations (Feb 30, day 31 in a 30-day month) are
// rejected here rather than earlier, so each pattern only checks ranges.
func makeDate(year int, month time.Month, day int) (time.Time, bool) {
	if month < time.January || month > time.December || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Dates extracts every recognizable date from the text. Four families are
// handled: Spanish "d de mes [de|del] yyyy", dd/mm/yyyy and dd-mm-yyyy,
// ISO yyyy-mm-dd (years 2020-2030 only, to avoid matching unrelated
// numbers), and English "Month d[,] yyyy". The union is deduplicated and
// sorted chronologically.
func Dates(text string) []time.Time {
	lower := strings.ToLower(text)
	seen := make(map[time.Time]struct{})

	for _, m := range spanishDateRe.FindAllStringSubmatch(lower, -1) {
		if t, ok := makeDate(atoi(m[3]), spanishMonths[m[2]], atoi(m[1])); ok {
			seen[t] = struct{}{}
		}
	}

	for _, m := range numericDateRe.FindAllStringSubmatch(text, -1) {
		day, month := atoi(m[1]), atoi(m[2])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		if t, ok := makeDate(atoi(m[3]), time.Month(month), day); ok {
			seen[t] = struct{}{}
		}
	}

	for _, m := range isoDateRe.FindAllStringSubmatch(text, -1) {
		year := atoi(m[1])
		if year < 2020 || year > 2030 {
			continue
		}
		if t, ok := makeDate(year, time.Month(atoi(m[2])), atoi(m[3])); ok {
			seen[t] = struct{}{}
		}
	}

	for _, m := range englishDateRe.FindAllStringSubmatch(lower, -1) {
		if t, ok := makeDate(atoi(m[3]), englishMonths[m[1]], atoi(m[2])); ok {
			seen[t] = struct{}{}
		}
	}

	out := make([]time.Time, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

var deadlineKeywordRes = []*regexp.Regexp{
	regexp.MustCompile(`fecha\s*l[ií]mite`),
	regexp.MustCompile(`cierre`),
	regexp.MustCompile(`deadline`),
	regexp.MustCompile(`hasta\s+el`),
	regexp.MustCompile(`closes?`),
	regexp.MustCompile(`vence`),
	regexp.MustCompile(`plazo`),
	regexp.MustCompile(`recepci[oó]n.*hasta`),
	regexp.MustCompile(`fecha\s*de\s*cierre`),
	regexp.MustCompile(`closing\s*date`),
}

var openingKeywordRes = []*regexp.Regexp{
	regexp.MustCompile(`apertura`),
	regexp.MustCompile(`inicio`),
	regexp.MustCompile(`opens?`),
	regexp.MustCompile(`desde`),
	regexp.MustCompile(`a\s*partir\s*de`),
}

const (
	windowBefore = 20
	windowAfter  = 150
)

// FindDeadline finds the most likely close date. Keywords are tried in
// list order (Spanish terms outrank English ones), occurrences of each in
// document order; the first window containing any date wins, and the
// LATEST date in that window is returned since deadline phrasings tend to
// list ranges or repeat the year. Falls back to the latest date anywhere
// in the text.
func FindDeadline(text string) (time.Time, bool) {
	if t, ok := searchKeywordWindows(text, deadlineKeywordRes, true); ok {
		return t, true
	}
	all := Dates(text)
	if len(all) == 0 {
		return time.Time{}, false
	}
	return all[len(all)-1], true
}

// FindOpeningDate is the symmetric search for the opening date: earliest
// date in the first productive keyword window, with no whole-text fallback
// (an unanchored date is a far weaker opening signal than deadline signal).
func FindOpeningDate(text string) (time.Time, bool) {
	return searchKeywordWindows(text, openingKeywordRes, false)
}

func searchKeywordWindows(text string, keywords []*regexp.Regexp, latest bool) (time.Time, bool) {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		for _, loc := range kw.FindAllStringIndex(lower, -1) {
			start := loc[0] - windowBefore
			if start < 0 {
				start = 0
			}
			end := loc[1] + windowAfter
			if end > len(lower) {
				end = len(lower)
			}
			dates := Dates(lower[start:end])
			if len(dates) == 0 {
				continue
			}
			if latest {
				return dates[len(dates)-1], true
			}
			return dates[0], true
		}
	}
	return time.Time{}, false
}
