package ledger

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mateobel/convoscan/internal/models"
)

const opportunitiesSchema = `
	CREATE TABLE IF NOT EXISTS opportunities (
		id INTEGER PRIMARY KEY,
		detected_on DATE NOT NULL,
		title TEXT NOT NULL,
		entity TEXT NOT NULL,
		kind TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		opens_on DATE,
		closes_on DATE,
		amount TEXT NOT NULL DEFAULT '',
		key_requirements TEXT NOT NULL DEFAULT '',
		required_documents TEXT NOT NULL DEFAULT '',
		relevance TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT ''
	)`

// PostgresBackend keeps the ledger in a single opportunities table. The
// whole set is loaded at session open and rewritten at save, mirroring
// the file backends; concurrency control is not attempted.
type PostgresBackend struct {
	pool *pgxpool.Pool
}

// ConnectPostgres opens a pool against DATABASE_URL (or the given URL if
// non-empty) and ensures the schema exists.
func ConnectPostgres(ctx context.Context, url string) (*PostgresBackend, error) {
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return nil, fmt.Errorf("postgres ledger requires DATABASE_URL")
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, opportunitiesSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring opportunities table: %w", err)
	}

	return &PostgresBackend{pool: pool}, nil
}

func (b *PostgresBackend) Close() {
	b.pool.Close()
}

func (b *PostgresBackend) Load() ([]models.Opportunity, error) {
	ctx := context.Background()
	rows, err := b.pool.Query(ctx, `
		SELECT id, detected_on, title, entity, kind, source, url,
		       opens_on, closes_on, amount, key_requirements,
		       required_documents, relevance, status, notes
		FROM opportunities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying opportunities: %w", err)
	}
	defer rows.Close()

	var records []models.Opportunity
	for rows.Next() {
		var rec models.Opportunity
		var kind, relevance, status string
		if err := rows.Scan(
			&rec.ID, &rec.DetectedOn, &rec.Title, &rec.Entity, &kind,
			&rec.Source, &rec.URL, &rec.OpensOn, &rec.ClosesOn, &rec.Amount,
			&rec.KeyRequirements, &rec.RequiredDocuments,
			&relevance, &status, &rec.Notes,
		); err != nil {
			return nil, fmt.Errorf("scanning opportunity row: %w", err)
		}
		rec.Kind = models.Kind(kind)
		rec.Relevance = models.Relevance(relevance)
		rec.Status = models.Status(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading opportunities: %w", err)
	}
	return records, nil
}

func (b *PostgresBackend) Save(records []models.Opportunity) error {
	ctx := context.Background()
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM opportunities"); err != nil {
		return fmt.Errorf("clearing opportunities: %w", err)
	}

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(`
			INSERT INTO opportunities (
				id, detected_on, title, entity, kind, source, url,
				opens_on, closes_on, amount, key_requirements,
				required_documents, relevance, status, notes
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			rec.ID, rec.DetectedOn, rec.Title, rec.Entity, string(rec.Kind),
			rec.Source, rec.URL, rec.OpensOn, rec.ClosesOn, rec.Amount,
			rec.KeyRequirements, rec.RequiredDocuments,
			string(rec.Relevance), string(rec.Status), rec.Notes,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting opportunities: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing save: %w", err)
	}
	return nil
}
