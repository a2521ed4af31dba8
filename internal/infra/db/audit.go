// Package db opens the optional audit store selected by configuration.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bryanwahyu/vital360/internal/config"
	"github.com/bryanwahyu/vital360/internal/domain/audit"
	"github.com/bryanwahyu/vital360/internal/infra/db/mysql"
	"github.com/bryanwahyu/vital360/internal/infra/db/postgres"
	"github.com/bryanwahyu/vital360/internal/infra/db/sqlite"
)

type schemaRepository interface {
	audit.Repository
	EnsureSchema(ctx context.Context) error
}

// OpenAudit connects to the configured driver and prepares its schema.
// It returns nil, nil, nil when auditing is disabled.
func OpenAudit(ctx context.Context, cfg *config.Config) (audit.Repository, *sql.DB, error) {
	var (
		conn *sql.DB
		repo schemaRepository
		err  error
	)
	switch cfg.Audit.Driver {
	case "":
		return nil, nil, nil
	case "mysql":
		if conn, err = mysql.Connect(ctx, cfg.MySQLDSN()); err == nil {
			repo = mysql.NewAuditRepository(conn)
		}
	case "postgres":
		if conn, err = postgres.Connect(ctx, cfg.PostgresDSN()); err == nil {
			repo = postgres.NewAuditRepository(conn)
		}
	case "sqlite":
		if conn, err = sqlite.Open(ctx, cfg.Audit.Path); err == nil {
			repo = sqlite.NewAuditRepository(conn)
		}
	default:
		return nil, nil, fmt.Errorf("unknown audit driver %q", cfg.Audit.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("connect %s: %w", cfg.Audit.Driver, err)
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("ensure %s schema: %w", cfg.Audit.Driver, err)
	}
	return repo, conn, nil
}
