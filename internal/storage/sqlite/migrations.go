package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
)

// migration is one forward-only schema change. Migrations run in order
// after the base schema; each is recorded in metadata so reopening an
// existing database skips already-applied steps.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, db *sql.DB) error
}

var migrations = []migration{
	// The base schema covers the initial release. New columns and
	// indexes go here, never in schema.go, so existing databases
	// upgrade in place.
	{
		version: 1,
		name:    "path metric snapshots",
		apply: func(ctx context.Context, db *sql.DB) error {
			stmts := []string{
				`ALTER TABLE paths ADD COLUMN baseline_metric TEXT NOT NULL DEFAULT ''`,
				`ALTER TABLE paths ADD COLUMN current_metric TEXT NOT NULL DEFAULT ''`,
			}
			for _, stmt := range stmts {
				if _, err := db.ExecContext(ctx, stmt); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

const schemaVersionKey = "schema_version"

func runMigrations(ctx context.Context, db *sql.DB) error {
	current := 0
	var v string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM metadata WHERE key = ?`, schemaVersionKey).Scan(&v)
	switch {
	case err == sql.ErrNoRows:
		// fresh database
	case err != nil:
		return fmt.Errorf("reading schema version: %w", err)
	default:
		current, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing schema version %q: %w", v, err)
		}
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := m.apply(ctx, db); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		current = m.version
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO metadata (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		schemaVersionKey, strconv.Itoa(current))
	if err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}
	return nil
}
