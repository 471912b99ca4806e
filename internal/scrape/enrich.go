package scrape

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mateobel/convoscan/internal/extract"
	"github.com/mateobel/convoscan/internal/models"
)

// detailDelay spaces out detail-page fetches within one portal.
const detailDelay = 1 * time.Second

// pageTextFunc is swapped in tests to avoid live HTTP.
type pageTextFunc func(url string) (string, error)

// Enrich visits each record's detail page and fills the fields the listing
// left empty. Listing data always wins; a detail page can only add, never
// overwrite. A failed detail fetch leaves the record as-is.
func Enrich(f *Fetcher, ops []models.Opportunity) []models.Opportunity {
	return enrichWith(f.PageText, ops, detailDelay)
}

func enrichWith(pageText pageTextFunc, ops []models.Opportunity, delay time.Duration) []models.Opportunity {
	for i := range ops {
		if ops[i].URL == "" {
			continue
		}
		if i > 0 {
			time.Sleep(delay)
		}

		text, err := pageText(ops[i].URL)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"url":   ops[i].URL,
				"error": err,
			}).Warn("detail page fetch failed")
			continue
		}

		applyDetail(&ops[i], extract.FromText(text))
	}
	return ops
}

func applyDetail(op *models.Opportunity, data extract.DocumentData) {
	if op.ClosesOn == nil && data.ClosesOn != nil {
		op.ClosesOn = data.ClosesOn
	}
	if op.OpensOn == nil && data.OpensOn != nil {
		op.OpensOn = data.OpensOn
	}
	if strings.TrimSpace(op.Amount) == "" {
		op.Amount = data.Amount
	}
	if strings.TrimSpace(op.KeyRequirements) == "" {
		op.KeyRequirements = data.KeyRequirements
	}
	if strings.TrimSpace(op.RequiredDocuments) == "" {
		op.RequiredDocuments = data.RequiredDocuments
	}
}
