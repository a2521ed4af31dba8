package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/vital360/internal/domain/audit"
)

type AuditRepository struct{ db *sql.DB }

func NewAuditRepository(db *sql.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS gateway_exchanges (
  id          UUID PRIMARY KEY,
  visit_id    UUID        NOT NULL,
  kind        TEXT        NOT NULL,
  subject     TEXT        NOT NULL,
  outcome     TEXT        NOT NULL,
  response    TEXT        NOT NULL,
  error       TEXT        NOT NULL,
  latency_ms  BIGINT      NOT NULL,
  created_at  TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_gateway_exchanges_visit ON gateway_exchanges (visit_id, created_at DESC);`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

// Save insert satu record; id sama diabaikan
func (r *AuditRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO gateway_exchanges
(id, visit_id, kind, subject, outcome, response, error, latency_ms, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO NOTHING;`
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.VisitID, string(rec.Kind), stringOrDash(rec.Subject), string(rec.Outcome),
		rec.Response, rec.Error, rec.LatencyMS, rec.CreatedAt,
	)
	return err
}

func (r *AuditRepository) ListByVisit(ctx context.Context, visitID string, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, visit_id, kind, subject, outcome, response, error, latency_ms, created_at
FROM gateway_exchanges
WHERE visit_id = $1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, visitID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		if err := rows.Scan(&rec.ID, &rec.VisitID, &rec.Kind, &rec.Subject, &rec.Outcome,
			&rec.Response, &rec.Error, &rec.LatencyMS, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if rec.Subject == "-" {
			rec.Subject = ""
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
