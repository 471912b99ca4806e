// Package score classifies opportunities into relevance tiers by
// weighted keyword matching against the configured academic profile.
package score

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mateobel/convoscan/internal/config"
	"github.com/mateobel/convoscan/internal/models"
)

// highBaseKeywords strongly indicate a fit: doctoral-level markers, the
// target discipline, nationality/region markers, the home institution and
// cognitive/psychometric terms. Keywords are stored accent-folded; the
// searchable text is folded the same way before matching.
var highBaseKeywords = []string{
	"doctorado", "doctoral", "phd", "ph.d",
	"psicologia", "psychology",
	"colombia", "colombian",
	"latinoamerica", "latin america", "iberoamerica",
	"univalle", "universidad del valle",
	"cognitiv", "cognitive",
	"psicometri", "psychometr",
}

// mediumKeywords moderately indicate a fit: adjacent disciplines, generic
// research/graduate-study terms and home-city markers.
var mediumKeywords = []string{
	"estadistica", "statistics", "statistical",
	"filosofia", "philosophy",
	"investigacion", "research",
	"ciencias sociales", "social sciences",
	"posgrado", "postgrado", "graduate",
	"maestria", "master",
	"educacion", "education",
	"cali", "valle del cauca",
	"computacional", "computational",
}

// Scorer assigns relevance tiers. Keyword lists are fixed at construction
// from the profile's subject areas plus the built-in tiers.
type Scorer struct {
	high       []string
	medium     []string
	rescoreLow bool
}

// Option configures scorer policy.
type Option func(*Scorer)

// WithRescoreLow controls whether records already marked Low are rescored
// on the next batch. True treats Low as provisional (a manual downgrade
// does not stick); false makes any Low permanent until edited by hand.
func WithRescoreLow(rescore bool) Option {
	return func(s *Scorer) { s.rescoreLow = rescore }
}

func New(profile config.Profile, opts ...Option) *Scorer {
	s := &Scorer{
		high:       make([]string, 0, len(highBaseKeywords)+len(profile.Areas)),
		medium:     mediumKeywords,
		rescoreLow: true,
	}
	for _, kw := range highBaseKeywords {
		s.high = append(s.high, kw)
	}
	for _, area := range profile.Areas {
		s.high = appendUniqueFolded(s.high, foldText(area))
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldText lowercases and strips diacritics so "Psicología" matches
// "psicologia".
func foldText(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

func appendUniqueFolded(list []string, v string) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

// Score classifies a single record: High on 2+ high-tier hits, Medium on
// one high-tier hit or 2+ medium-tier hits, Low otherwise. Distinct
// keywords count once no matter how often they appear.
func (s *Scorer) Score(op models.Opportunity) models.Relevance {
	searchable := foldText(strings.Join([]string{
		op.Title, op.Entity, op.KeyRequirements,
		op.Notes, string(op.Kind), op.Amount,
	}, " "))

	highCount := countMatches(searchable, s.high)
	mediumCount := countMatches(searchable, s.medium)

	switch {
	case highCount >= 2:
		return models.RelevanceHigh
	case highCount >= 1 || mediumCount >= 2:
		return models.RelevanceMedium
	default:
		return models.RelevanceLow
	}
}

// ScoreAll scores a batch in place. Only records still holding an
// auto-assigned default relevance are touched: High, or anything a
// reviewer set, passes through unchanged.
func (s *Scorer) ScoreAll(ops []models.Opportunity) []models.Opportunity {
	for i := range ops {
		if s.shouldRescore(ops[i].Relevance) {
			ops[i].Relevance = s.Score(ops[i])
		}
	}
	return ops
}

func (s *Scorer) shouldRescore(current models.Relevance) bool {
	switch current {
	case "", models.RelevanceMedium:
		return true
	case models.RelevanceLow:
		return s.rescoreLow
	default:
		return false
	}
}
