package scrape

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mateobel/convoscan/internal/config"
	"github.com/mateobel/convoscan/internal/models"
)

// portalDelay is the politeness pause between portals.
const portalDelay = 2 * time.Second

// Stats summarizes one scan run. Failed lists the portals whose extraction
// errored, so reporting can tell "nothing new" apart from "could not look".
type Stats struct {
	RunID  string
	Found  int
	Failed []string
}

// Orchestrator runs the configured portals strictly in sequence. One
// portal failing is logged and recorded but never aborts the rest.
type Orchestrator struct {
	fetcher     *Fetcher
	resolve     func(config.Portal) Extractor
	portalDelay time.Duration
	enrich      bool
}

func NewOrchestrator() *Orchestrator {
	return &Orchestrator{
		fetcher:     NewFetcher(),
		resolve:     ForPortal,
		portalDelay: portalDelay,
		enrich:      true,
	}
}

// Run scans every portal and returns the collected candidates together
// with run statistics. Records come back unscored and without IDs; the
// ledger assigns both.
func (o *Orchestrator) Run(portals []config.Portal) ([]models.Opportunity, Stats) {
	stats := Stats{RunID: uuid.NewString()}
	log := logrus.WithField("run_id", stats.RunID)

	var all []models.Opportunity
	for i, portal := range portals {
		if i > 0 {
			time.Sleep(o.portalDelay)
		}

		extractor := o.resolve(portal)
		plog := log.WithFields(logrus.Fields{"portal": portal.Name, "extractor": extractor.Name()})
		plog.Info("scanning portal")

		ops, err := extractor.Extract(o.fetcher, portal)
		if err != nil {
			plog.WithField("error", err).Error("portal scan failed")
			stats.Failed = append(stats.Failed, portal.Name)
			continue
		}

		if o.enrich {
			ops = Enrich(o.fetcher, ops)
		}

		plog.WithField("count", len(ops)).Info("portal scan finished")
		all = append(all, ops...)
	}

	stats.Found = len(all)
	return all, stats
}
