// Package report derives run summaries from the ledger and renders them
// to the console and as an email digest.
package report

import (
	"sort"
	"time"

	"github.com/mateobel/convoscan/internal/models"
)

// upcomingWindowDays bounds the "closing soon" list in the summary.
const upcomingWindowDays = 15

// Summary is a pure projection of the ledger at one point in time. It
// holds no state of its own; building it twice over the same records
// gives the same result.
type Summary struct {
	Total       int
	ByKind      map[models.Kind]int
	ByStatus    map[models.Status]int
	ByRelevance map[models.Relevance]int
	Upcoming    []models.Opportunity
	New         []models.Opportunity
	GeneratedOn time.Time
}

// Build derives the summary for the given calendar date. Upcoming lists
// records closing within the next 15 days, soonest first, skipping
// anything already expired or applied; newRecords is the batch accepted
// in this run, passed through for the notification body.
func Build(records []models.Opportunity, newRecords []models.Opportunity, today time.Time) Summary {
	s := Summary{
		Total:       len(records),
		ByKind:      make(map[models.Kind]int),
		ByStatus:    make(map[models.Status]int),
		ByRelevance: make(map[models.Relevance]int),
		New:         newRecords,
		GeneratedOn: models.DateOnly(today),
	}

	horizon := s.GeneratedOn.AddDate(0, 0, upcomingWindowDays)
	for _, rec := range records {
		s.ByKind[rec.Kind]++
		s.ByStatus[rec.Status]++
		s.ByRelevance[rec.Relevance]++

		if rec.Status == models.StatusExpired || rec.Status == models.StatusApplied {
			continue
		}
		if rec.ClosesOn == nil {
			continue
		}
		closes := models.DateOnly(*rec.ClosesOn)
		if !closes.Before(s.GeneratedOn) && !closes.After(horizon) {
			s.Upcoming = append(s.Upcoming, rec)
		}
	}

	sort.SliceStable(s.Upcoming, func(i, j int) bool {
		return s.Upcoming[i].ClosesOn.Before(*s.Upcoming[j].ClosesOn)
	})
	return s
}

// DaysLeft counts whole days from the summary date to the record's close
// date. Zero means it closes today.
func (s Summary) DaysLeft(rec models.Opportunity) int {
	if rec.ClosesOn == nil {
		return -1
	}
	return int(models.DateOnly(*rec.ClosesOn).Sub(s.GeneratedOn).Hours() / 24)
}
