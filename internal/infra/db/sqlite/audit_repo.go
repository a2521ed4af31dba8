package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	domain "github.com/bryanwahyu/vital360/internal/domain/audit"
)

// Open opens (and creates) the database file. ":memory:" is accepted for tests.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// satu koneksi supaya :memory: tidak pecah per koneksi dan tidak SQLITE_BUSY
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

type AuditRepository struct{ db *sql.DB }

func NewAuditRepository(db *sql.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS gateway_exchanges (
		id TEXT PRIMARY KEY,
		visit_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		outcome TEXT NOT NULL,
		response TEXT NOT NULL DEFAULT '',
		error TEXT NOT NULL DEFAULT '',
		latency_ms INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_gateway_exchanges_visit ON gateway_exchanges(visit_id, created_at);
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (r *AuditRepository) Save(ctx context.Context, rec *domain.Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	query := `
	INSERT INTO gateway_exchanges (id, visit_id, kind, subject, outcome, response, error, latency_ms, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.VisitID, string(rec.Kind), strings.TrimSpace(rec.Subject), string(rec.Outcome),
		rec.Response, rec.Error, rec.LatencyMS, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert gateway exchange: %w", err)
	}
	return nil
}

func (r *AuditRepository) ListByVisit(ctx context.Context, visitID string, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, visit_id, kind, subject, outcome, response, error, latency_ms, created_at
		FROM gateway_exchanges
		WHERE visit_id = ?
		ORDER BY created_at DESC
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, visitID, limit)
	if err != nil {
		return nil, fmt.Errorf("query gateway exchanges: %w", err)
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		var created int64
		if err := rows.Scan(&rec.ID, &rec.VisitID, &rec.Kind, &rec.Subject, &rec.Outcome,
			&rec.Response, &rec.Error, &rec.LatencyMS, &created); err != nil {
			return nil, fmt.Errorf("scan gateway exchange: %w", err)
		}
		rec.CreatedAt = time.Unix(0, created)
		out = append(out, &rec)
	}
	return out, rows.Err()
}
