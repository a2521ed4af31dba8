package mysql

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	domain "github.com/bryanwahyu/vital360/internal/domain/audit"
)

type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository { return &AuditRepository{db: db} }

// EnsureSchema bikin tabel kalau belum ada
func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS gateway_exchanges (
  id          CHAR(36)     NOT NULL PRIMARY KEY,
  visit_id    CHAR(36)     NOT NULL,
  kind        VARCHAR(32)  NOT NULL,
  subject     VARCHAR(64)  NOT NULL,
  outcome     VARCHAR(16)  NOT NULL,
  response    TEXT         NOT NULL,
  error       TEXT         NOT NULL,
  latency_ms  BIGINT       NOT NULL,
  created_at  DATETIME(6)  NOT NULL,
  INDEX idx_gateway_exchanges_visit (visit_id, created_at)
)`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

func (r *AuditRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO gateway_exchanges
  (id, visit_id, kind, subject, outcome, response, error, latency_ms, created_at)
VALUES (?,?,?,?,?,?,?,?,?)
`
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.VisitID, string(rec.Kind), stringOrDash(rec.Subject), string(rec.Outcome),
		rec.Response, rec.Error, rec.LatencyMS, rec.CreatedAt.UTC(),
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
WHERE visit_id = ?
ORDER BY created_at DESC
LIMIT ?;`
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
