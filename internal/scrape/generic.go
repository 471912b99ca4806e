package scrape

import (
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"

	"github.com/mateobel/convoscan/internal/config"
	"github.com/mateobel/convoscan/internal/extract"
	"github.com/mateobel/convoscan/internal/models"
)

// opportunityKeywords mark link text worth collecting on unknown portals.
var opportunityKeywords = []string{
	"convocatoria", "beca", "scholarship", "fellowship", "grant",
	"financiaci", "apoyo", "movilidad", "pasant", "intercambio",
	"call for", "funding",
}

// skipPatterns filter out navigation and social links that happen to sit
// near opportunity keywords.
var skipPatterns = []string{
	"facebook.com", "twitter.com", "x.com", "instagram.com",
	"linkedin.com", "youtube.com", "whatsapp", "mailto:", "tel:",
	"/login", "/search", "javascript:",
}

func looksLikeOpportunity(text string) bool {
	lower := strings.ToLower(text)
	if len(strings.TrimSpace(text)) < 15 {
		return false
	}
	for _, kw := range opportunityKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func shouldSkipLink(link string) bool {
	lower := strings.ToLower(link)
	for _, pattern := range skipPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// genericExtractor walks the anchors of a single listing page and keeps
// links whose text looks like a funding call. Dates and amounts are read
// from the link's parent block, which usually holds the whole card text.
type genericExtractor struct{}

func (genericExtractor) Name() string { return "generic" }

func (genericExtractor) Extract(f *Fetcher, portal config.Portal) ([]models.Opportunity, error) {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(listingTimeout)
	if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: 1 * time.Second}); err != nil {
		return nil, fmt.Errorf("configuring rate limit: %w", err)
	}

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept-Language", "es-CO,es;q=0.9,en;q=0.8")
	})

	seen := make(map[string]bool)
	var ops []models.Opportunity

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if len(ops) >= maxItemsPerPortal {
			return
		}
		title := strings.TrimSpace(e.Text)
		if !looksLikeOpportunity(title) {
			return
		}
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" || shouldSkipLink(link) || seen[link] {
			return
		}
		seen[link] = true

		op := newListing(portal, title, link)
		context := e.DOM.Parent().Text()
		if deadline, ok := extract.FindDeadline(context); ok {
			op.ClosesOn = &deadline
		}
		op.Amount = extract.Amount(context)

		ops = append(ops, op)
	})

	if err := c.Visit(portal.URL); err != nil {
		return nil, err
	}
	c.Wait()

	logrus.WithFields(logrus.Fields{"portal": portal.Name, "count": len(ops)}).Debug("listing extracted")
	return ops, nil
}
