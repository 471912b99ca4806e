package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/mateobel/convoscan/internal/config"
	"github.com/mateobel/convoscan/internal/ledger"
	"github.com/mateobel/convoscan/internal/models"
	"github.com/mateobel/convoscan/internal/report"
	"github.com/mateobel/convoscan/internal/score"
	"github.com/mateobel/convoscan/internal/scrape"
	"github.com/mateobel/convoscan/internal/seed"
)

func main() {
	webOnly := flag.Bool("web-only", false, "scan portals but skip the summary email")
	updateOnly := flag.Bool("update-only", false, "skip scanning; refresh expiry, ordering and summary only")
	noEmail := flag.Bool("no-email", false, "never send the summary email")
	configPath := flag.String("config", "", "optional config file overriding the embedded one")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, relying on process environment")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("loading config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	backend, cleanup, err := openBackend(cfg.Ledger)
	if err != nil {
		logrus.Fatalf("opening ledger backend: %v", err)
	}
	defer cleanup()

	session, err := ledger.Open(backend)
	if err != nil {
		logrus.Fatalf("opening ledger: %v", err)
	}
	logrus.WithField("records", session.Len()).Info("ledger loaded")

	scorer := score.New(cfg.Profile, score.WithRescoreLow(cfg.Scoring.RescoreLow))
	today := models.Today()

	if session.IsNew() && cfg.SeedPath != "" {
		planted, err := seed.Load(cfg.SeedPath)
		if err != nil {
			logrus.Fatalf("loading seed data: %v", err)
		}
		accepted := session.AppendBatch(scorer.ScoreAll(planted))
		logrus.WithField("count", len(accepted)).Info("seeded new ledger")
	}

	var accepted []models.Opportunity
	var stats scrape.Stats
	if !*updateOnly {
		found, runStats := scrape.NewOrchestrator().Run(cfg.ActivePortals())
		stats = runStats
		accepted = session.AppendBatch(scorer.ScoreAll(found))
		logrus.WithFields(logrus.Fields{
			"found":    stats.Found,
			"accepted": len(accepted),
			"failed":   len(stats.Failed),
		}).Info("scan finished")
	}

	// Records already in the ledger get rescored too, subject to the
	// rescore_low policy.
	scorer.ScoreAll(session.Records())

	expired := session.MarkExpired(today)
	if expired > 0 {
		logrus.WithField("count", expired).Info("opportunities expired")
	}
	session.SortByClose()

	if err := session.Save(); err != nil {
		logrus.Fatalf("saving ledger: %v", err)
	}

	summary := report.Build(session.Records(), accepted, today)
	report.RenderConsole(os.Stdout, summary, stats)

	if *noEmail || *webOnly {
		return
	}
	mailer := report.NewMailer(cfg.Email)
	if err := mailer.Send(summary, cfg.Ledger.Path); err != nil {
		logrus.Errorf("sending summary email: %v", err)
	}
}

// openBackend picks the configured ledger backend. The returned cleanup is
// always safe to call.
func openBackend(cfg config.LedgerConfig) (ledger.Backend, func(), error) {
	switch cfg.Backend {
	case "postgres":
		pg, err := ledger.ConnectPostgres(context.Background(), cfg.URL)
		if err != nil {
			return nil, func() {}, err
		}
		return pg, pg.Close, nil
	default:
		return ledger.NewCSVBackend(cfg.Path), func() {}, nil
	}
}
