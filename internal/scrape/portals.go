package scrape

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/mateobel/convoscan/internal/config"
	"github.com/mateobel/convoscan/internal/extract"
	"github.com/mateobel/convoscan/internal/models"
)

// maxItemsPerPortal caps how many listing entries a single portal can
// contribute per run.
const maxItemsPerPortal = 20

// Extractor turns one portal listing into opportunity records. The set of
// implementations is closed; portals pick one by name in the config and
// anything unrecognized gets the generic link walker.
type Extractor interface {
	Name() string
	Extract(f *Fetcher, portal config.Portal) ([]models.Opportunity, error)
}

// ForPortal resolves the extractor variant for a portal.
func ForPortal(p config.Portal) Extractor {
	switch strings.ToLower(p.Extractor) {
	case "minciencias":
		return mincienciasExtractor{}
	case "icetex":
		return icetexExtractor{}
	case "fulbright":
		return fulbrightExtractor{}
	case "univalle":
		return univalleExtractor{}
	default:
		return genericExtractor{}
	}
}

// absoluteURL resolves href against the portal base. Fragments and
// javascript pseudo-links resolve to empty.
func absoluteURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}

func newListing(portal config.Portal, title, link string) models.Opportunity {
	return models.Opportunity{
		Title:  strings.TrimSpace(title),
		Entity: portal.Name,
		Kind:   portalKind(portal),
		Source: portal.Name,
		URL:    link,
		Status: models.StatusNew,
	}
}

func portalKind(p config.Portal) models.Kind {
	if p.Kind == "" {
		return models.KindOther
	}
	return models.Kind(p.Kind)
}

// mincienciasExtractor reads the Minciencias convocatoria cards. The
// listing carries a status badge per card; closed calls are skipped and
// the open/close hints feed the date fields when the card shows them.
type mincienciasExtractor struct{}

func (mincienciasExtractor) Name() string { return "minciencias" }

func (mincienciasExtractor) Extract(f *Fetcher, portal config.Portal) ([]models.Opportunity, error) {
	doc, err := f.Listing(portal.URL)
	if err != nil {
		return nil, err
	}

	var ops []models.Opportunity
	doc.Find("div.views-row, article.convocatoria, div.card-convocatoria").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		titleSel := sel.Find("h2 a, h3 a, a.titulo").First()
		title := titleSel.Text()
		href, _ := titleSel.Attr("href")
		link := absoluteURL(portal.URL, href)
		if strings.TrimSpace(title) == "" || link == "" {
			return true
		}

		badge := strings.ToLower(sel.Find(".estado, .badge, .field--name-field-estado").First().Text())
		if strings.Contains(badge, "cerrada") || strings.Contains(badge, "finalizada") {
			return true
		}

		op := newListing(portal, title, link)
		cardText := sel.Text()
		if deadline, ok := extract.FindDeadline(cardText); ok {
			op.ClosesOn = &deadline
		}
		if opening, ok := extract.FindOpeningDate(cardText); ok {
			op.OpensOn = &opening
		}

		ops = append(ops, op)
		return len(ops) < maxItemsPerPortal
	})

	logrus.WithFields(logrus.Fields{"portal": portal.Name, "count": len(ops)}).Debug("listing extracted")
	return ops, nil
}

// icetexExtractor reads the ICETEX scholarship listing. Cards link a beca
// title to its program page; amounts sometimes appear in the card blurb.
type icetexExtractor struct{}

func (icetexExtractor) Name() string { return "icetex" }

func (icetexExtractor) Extract(f *Fetcher, portal config.Portal) ([]models.Opportunity, error) {
	doc, err := f.Listing(portal.URL)
	if err != nil {
		return nil, err
	}

	var ops []models.Opportunity
	doc.Find("div.beca-item, div.views-row, li.programa").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		titleSel := sel.Find("a").First()
		title := titleSel.Text()
		href, _ := titleSel.Attr("href")
		link := absoluteURL(portal.URL, href)
		if strings.TrimSpace(title) == "" || link == "" {
			return true
		}

		op := newListing(portal, title, link)
		cardText := sel.Text()
		if deadline, ok := extract.FindDeadline(cardText); ok {
			op.ClosesOn = &deadline
		}
		op.Amount = extract.Amount(cardText)

		ops = append(ops, op)
		return len(ops) < maxItemsPerPortal
	})

	logrus.WithFields(logrus.Fields{"portal": portal.Name, "count": len(ops)}).Debug("listing extracted")
	return ops, nil
}

// fulbrightExtractor reads the Fulbright Colombia becas grid, which is a
// WordPress card layout.
type fulbrightExtractor struct{}

func (fulbrightExtractor) Name() string { return "fulbright" }

func (fulbrightExtractor) Extract(f *Fetcher, portal config.Portal) ([]models.Opportunity, error) {
	doc, err := f.Listing(portal.URL)
	if err != nil {
		return nil, err
	}

	var ops []models.Opportunity
	doc.Find("article, div.beca-card, div.elementor-post").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		titleSel := sel.Find("h2 a, h3 a, h4 a, a.elementor-post__thumbnail__link").First()
		title := titleSel.Text()
		if strings.TrimSpace(title) == "" {
			title = sel.Find("h2, h3, h4").First().Text()
		}
		href, _ := titleSel.Attr("href")
		link := absoluteURL(portal.URL, href)
		if strings.TrimSpace(title) == "" || link == "" {
			return true
		}

		op := newListing(portal, title, link)
		if deadline, ok := extract.FindDeadline(sel.Text()); ok {
			op.ClosesOn = &deadline
		}

		ops = append(ops, op)
		return len(ops) < maxItemsPerPortal
	})

	logrus.WithFields(logrus.Fields{"portal": portal.Name, "count": len(ops)}).Debug("listing extracted")
	return ops, nil
}

// univalleExtractor reads the Universidad del Valle announcement board,
// a plain list of links inside the content region.
type univalleExtractor struct{}

func (univalleExtractor) Name() string { return "univalle" }

func (univalleExtractor) Extract(f *Fetcher, portal config.Portal) ([]models.Opportunity, error) {
	doc, err := f.Listing(portal.URL)
	if err != nil {
		return nil, err
	}

	var ops []models.Opportunity
	doc.Find("div#contenido a, div.region-content a, main a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := sel.Text()
		if !looksLikeOpportunity(title) {
			return true
		}
		href, _ := sel.Attr("href")
		link := absoluteURL(portal.URL, href)
		if link == "" {
			return true
		}

		ops = append(ops, newListing(portal, title, link))
		return len(ops) < maxItemsPerPortal
	})

	logrus.WithFields(logrus.Fields{"portal": portal.Name, "count": len(ops)}).Debug("listing extracted")
	return ops, nil
}
