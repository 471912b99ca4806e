// Package scrape fetches portal listings, extracts opportunity records
// through a closed set of portal-specific variants and enriches them from
// detail pages.
package scrape

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const (
	listingTimeout = 30 * time.Second
	detailTimeout  = 15 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Fetcher wraps the two HTTP clients used during a scan. Listing pages get
// a longer timeout than detail pages so one slow convocatoria page cannot
// stall the whole run.
type Fetcher struct {
	listClient   *http.Client
	detailClient *http.Client
	sanitizer    *bluemonday.Policy
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		listClient:   &http.Client{Timeout: listingTimeout},
		detailClient: &http.Client{Timeout: detailTimeout},
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

func (f *Fetcher) get(client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-CO,es;q=0.9,en;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}
	return body, nil
}

// Listing fetches a portal listing page and parses it.
func (f *Fetcher) Listing(url string) (*goquery.Document, error) {
	body, err := f.get(f.listClient, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}
	return doc, nil
}

// PageText fetches a detail page and returns its readable text. Page
// chrome is dropped first, then the remaining markup is flattened to
// plain text by the strict sanitizer.
func (f *Fetcher) PageText(url string) (string, error) {
	body, err := f.get(f.detailClient, url)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", url, err)
	}
	doc.Find("nav, header, footer, aside, script, style, noscript").Remove()

	markup, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", url, err)
	}

	text := html.UnescapeString(f.sanitizer.Sanitize(markup))
	return collapseWhitespace(text), nil
}

// collapseWhitespace squeezes runs of spaces and tabs but keeps newlines,
// which the section extractor relies on to find paragraph boundaries.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	spacePending := false
	atLineStart := true
	for _, r := range s {
		switch r {
		case ' ', '\t', '\r':
			spacePending = true
		case '\n':
			spacePending = false
			atLineStart = true
			b.WriteRune('\n')
		default:
			if spacePending && !atLineStart {
				b.WriteRune(' ')
			}
			spacePending = false
			atLineStart = false
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
