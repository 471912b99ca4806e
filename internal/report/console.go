package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/mateobel/convoscan/internal/models"
	"github.com/mateobel/convoscan/internal/scrape"
)

const consoleDateLayout = "2006-01-02"

// RenderConsole prints the run summary as tables. It is printed on every
// run, including ones where scraping partially failed; failed portals are
// labeled so an empty result is never mistaken for a clean "nothing new".
func RenderConsole(w io.Writer, s Summary, stats scrape.Stats) {
	fmt.Fprintf(w, "\nScan %s on %s: %d opportunities tracked, %d found this run\n",
		stats.RunID, s.GeneratedOn.Format(consoleDateLayout), s.Total, stats.Found)

	if len(stats.Failed) > 0 {
		fmt.Fprintf(w, "WARNING: could not scan: %s\n", strings.Join(stats.Failed, ", "))
	} else if stats.Found == 0 {
		fmt.Fprintln(w, "All portals scanned, nothing new found.")
	}

	renderCounts(w, s)

	if len(s.New) > 0 {
		fmt.Fprintf(w, "\nNew this run (%d):\n", len(s.New))
		renderRecords(w, s, s.New)
	}
	if len(s.Upcoming) > 0 {
		fmt.Fprintf(w, "\nClosing within %d days (%d):\n", upcomingWindowDays, len(s.Upcoming))
		renderRecords(w, s, s.Upcoming)
	}
}

func renderCounts(w io.Writer, s Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Relevance", "Count", "", "Status", "Count"})

	relevances := []models.Relevance{models.RelevanceHigh, models.RelevanceMedium, models.RelevanceLow}
	statuses := []models.Status{
		models.StatusNew, models.StatusReviewed, models.StatusInPreparation,
		models.StatusInProgress, models.StatusApplied, models.StatusDiscarded,
		models.StatusExpired,
	}

	rows := len(relevances)
	if len(statuses) > rows {
		rows = len(statuses)
	}
	for i := 0; i < rows; i++ {
		row := table.Row{"", "", "", "", ""}
		if i < len(relevances) {
			row[0], row[1] = string(relevances[i]), s.ByRelevance[relevances[i]]
		}
		if i < len(statuses) {
			row[3], row[4] = string(statuses[i]), s.ByStatus[statuses[i]]
		}
		t.AppendRow(row)
	}
	t.Render()
}

func renderRecords(w io.Writer, s Summary, records []models.Opportunity) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Title", "Entity", "Closes", "Days", "Relevance", "Status"})

	for _, rec := range records {
		closes, days := "", ""
		if rec.ClosesOn != nil {
			closes = rec.ClosesOn.Format(consoleDateLayout)
			days = fmt.Sprintf("%d", s.DaysLeft(rec))
		}
		t.AppendRow(table.Row{
			rec.ID, truncate(rec.Title, 60), rec.Entity, closes, days,
			string(rec.Relevance), string(rec.Status),
		})
	}
	t.Render()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
