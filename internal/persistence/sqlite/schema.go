package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// migration is a versioned schema change applied once per database.
type migration struct {
	Version     string
	Description string
	SQL         string
}

var migrations = []migration{
	{
		Version:     "001",
		Description: "media assets",
		SQL: `
			CREATE TABLE IF NOT EXISTS media_assets (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				mime_type TEXT NOT NULL,
				data BLOB NOT NULL,
				digest TEXT NOT NULL,
				stored_at TEXT NOT NULL
			);
		`,
	},
	{
		Version:     "002",
		Description: "application state",
		SQL: `
			CREATE TABLE IF NOT EXISTS app_state (
				key TEXT PRIMARY KEY,
				payload TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);
		`,
	},
}

// Migrate applies pending schema migrations in version order. Each migration
// runs in its own transaction together with its schema_migrations record.
func (cp *ConnectionPool) Migrate(ctx context.Context) error {
	const versionTable = `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TEXT NOT NULL,
			execution_time_ms INTEGER
		);
	`
	if _, err := cp.db.ExecContext(ctx, versionTable); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	applied, err := cp.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if _, ok := applied[m.Version]; ok {
			continue
		}
		start := time.Now()
		err := cp.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO schema_migrations (version, applied_at, execution_time_ms) VALUES (?, ?, ?)`,
				m.Version, time.Now().UTC().Format(time.RFC3339), time.Since(start).Milliseconds(),
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("migration %s (%s): %w", m.Version, m.Description, err)
		}
	}
	return nil
}

func (cp *ConnectionPool) appliedVersions(ctx context.Context) (map[string]struct{}, error) {
	rows, err := cp.db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[string]struct{})
	for rows.Next() {
		var version string
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[version] = struct{}{}
	}
	return applied, rows.Err()
}
