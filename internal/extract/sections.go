package extract

import (
	"regexp"
	"strings"
)

// Keyword patterns match case-insensitively against the original text so
// excerpt offsets always index the string they came from. Lowercasing a
// copy first shifts byte offsets on runes whose lowercase form has a
// different length.
var requirementKeywordRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)requisitos?`),
	regexp.MustCompile(`(?i)requirements?`),
	regexp.MustCompile(`(?i)perfil`),
	regexp.MustCompile(`(?i)elegibilidad`),
	regexp.MustCompile(`(?i)who\s+can\s+apply`),
	regexp.MustCompile(`(?i)quienes?\s+pueden\s+participar`),
	regexp.MustCompile(`(?i)destinatarios?`),
	regexp.MustCompile(`(?i)dirigid[oa]\s+a`),
}

var documentKeywordRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)documentos?\s*(?:requeridos?|necesarios?|a\s*presentar)`),
	regexp.MustCompile(`(?i)adjuntar`),
	regexp.MustCompile(`(?i)annexe?s?`),
	regexp.MustCompile(`(?i)debe\s*presentar`),
	regexp.MustCompile(`(?i)documentaci[oó]n`),
	regexp.MustCompile(`(?i)se\s*debe\s*enviar`),
}

// sectionEndRe marks where an excerpt stops: a blank line or a line that
// looks like the next ALL-CAPS-ish section header.
var sectionEndRe = regexp.MustCompile(`\n\s*\n|\n[A-ZÁÉÍÓÚ][^a-z]{3,}`)

const maxExcerpts = 3

// Requirements pulls up to three short requirement excerpts out of the
// text, anchored on eligibility keywords, joined by "; ".
func Requirements(text string) string {
	return excerptSections(text, requirementKeywordRes, 500, 20, 300)
}

// Documents pulls up to three required-document excerpts.
func Documents(text string) string {
	return excerptSections(text, documentKeywordRes, 400, 10, 200)
}

func excerptSections(text string, keywords []*regexp.Regexp, chunkLen, minLen, maxLen int) string {
	var excerpts []string

	for _, kw := range keywords {
		for _, loc := range kw.FindAllStringIndex(text, -1) {
			if len(excerpts) >= maxExcerpts {
				break
			}
			start := loc[1]
			if start >= len(text) {
				continue
			}
			end := start + chunkLen
			if end > len(text) {
				end = len(text)
			}
			chunk := strings.TrimSpace(text[start:end])
			if m := sectionEndRe.FindStringIndex(chunk); m != nil {
				chunk = chunk[:m[0]]
			}
			chunk = strings.Trim(chunk, ": \n\t")
			if len(chunk) <= minLen {
				continue
			}
			if len(chunk) > maxLen {
				chunk = chunk[:maxLen]
			}
			chunk = strings.TrimSpace(strings.ToValidUTF8(chunk, ""))
			excerpts = append(excerpts, chunk)
		}
	}

	return strings.Join(excerpts, "; ")
}
