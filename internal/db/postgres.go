package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spacesedan/reviewlens/internal/models"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS review_analyses (
	review_id        TEXT PRIMARY KEY,
	source           TEXT,
	rating           DOUBLE PRECISION,
	text             TEXT NOT NULL,
	sentiment_score  DOUBLE PRECISION NOT NULL,
	sentiment_label  TEXT NOT NULL,
	confidence       DOUBLE PRECISION NOT NULL,
	prob_negative    DOUBLE PRECISION NOT NULL,
	prob_positive    DOUBLE PRECISION NOT NULL,
	verdict_source   TEXT,
	rule             TEXT,
	summary          TEXT,
	analyzed_at      TIMESTAMPTZ NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS aspect_analyses (
	review_id        TEXT NOT NULL REFERENCES review_analyses(review_id) ON DELETE CASCADE,
	aspect           TEXT NOT NULL,
	sentiment_score  DOUBLE PRECISION NOT NULL,
	sentiment_label  TEXT NOT NULL,
	confidence       DOUBLE PRECISION NOT NULL,
	verdict_source   TEXT,
	rule             TEXT,
	relevant_text    TEXT NOT NULL,
	PRIMARY KEY (review_id, aspect)
)`,
	`CREATE INDEX IF NOT EXISTS aspect_analyses_aspect_idx ON aspect_analyses (aspect)`,
}

type PostgresStore struct {
	DB *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.New(connectCtx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	slog.Info("[DB] Connected to PostgreSQL successfully")
	return &PostgresStore{DB: pool}, nil
}

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Close() {
	if s.DB != nil {
		s.DB.Close()
	}
}

func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.DB.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// StoreAnalyses upserts each review and replaces its aspect rows in one
// transaction.
func (s *PostgresStore) StoreAnalyses(ctx context.Context, analyses []models.ReviewAnalysis) error {
	rows := completed(analyses)
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, a := range rows {
		queueAnalysis(batch, a)
	}

	err := pgx.BeginFunc(ctx, s.DB, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		slog.Error("[DB] Failed to store review analyses",
			slog.Int("count", len(rows)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to store review analyses: %w", err)
	}

	slog.Info("[DB] Stored review analyses", slog.Int("count", len(rows)))
	return nil
}

func queueAnalysis(batch *pgx.Batch, a models.ReviewAnalysis) {
	sql, args := buildSentimentInsert(a)
	batch.Queue(sql, args...)
	batch.Queue(`DELETE FROM aspect_analyses WHERE review_id = $1`, a.ReviewID)
	for _, rec := range a.Aspects {
		sql, args := buildAspectInsert(a.ReviewID, rec)
		batch.Queue(sql, args...)
	}
}

func buildSentimentInsert(a models.ReviewAnalysis) (string, []any) {
	v := a.Sentiment
	sql := `INSERT INTO review_analyses (
	review_id, source, rating, text, sentiment_score, sentiment_label, confidence,
	prob_negative, prob_positive, verdict_source, rule, summary, analyzed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (review_id) DO UPDATE SET
	source = EXCLUDED.source,
	rating = EXCLUDED.rating,
	text = EXCLUDED.text,
	sentiment_score = EXCLUDED.sentiment_score,
	sentiment_label = EXCLUDED.sentiment_label,
	confidence = EXCLUDED.confidence,
	prob_negative = EXCLUDED.prob_negative,
	prob_positive = EXCLUDED.prob_positive,
	verdict_source = EXCLUDED.verdict_source,
	rule = EXCLUDED.rule,
	summary = EXCLUDED.summary,
	analyzed_at = EXCLUDED.analyzed_at`

	return sql, []any{
		a.ReviewID,
		nullable(a.Source),
		a.Rating,
		a.Text,
		v.Score,
		string(v.Label),
		v.Confidence,
		v.RawProbabilities.Negative,
		v.RawProbabilities.Positive,
		nullable(string(v.Source)),
		nullable(v.Rule),
		nullable(a.Summary),
		a.AnalyzedAt,
	}
}

func buildAspectInsert(reviewID string, rec models.AspectRecord) (string, []any) {
	sql := `INSERT INTO aspect_analyses (
	review_id, aspect, sentiment_score, sentiment_label, confidence, verdict_source, rule, relevant_text
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	return sql, []any{
		reviewID,
		rec.Aspect,
		rec.Score,
		string(rec.Label),
		rec.Confidence,
		nullable(string(rec.Source)),
		nullable(rec.Rule),
		rec.RelevantText,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
