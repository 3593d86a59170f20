// Package sqlite
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"heartbeat-agent/internal/logger"

	_ "github.com/mattn/go-sqlite3"
)

// schema is applied in order; PRAGMA user_version records how many steps an
// existing database has already seen.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS identity (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`,
	`ALTER TABLE identity ADD COLUMN updated_at INTEGER NOT NULL DEFAULT 0`,
}

// OpenDB opens the agent's sqlite file and brings its schema up to date.
func OpenDB(ctx context.Context, path string, log logger.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open identity database: %w", err)
	}

	// the agent loop is the only writer
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("identity database not responding: %w", err)
	}

	applied, err := migrate(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Debug("identity database ready", "path", path, "migrations_applied", applied)
	return db, nil
}

func migrate(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}

	applied := 0
	for i := version; i < len(schema); i++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return applied, fmt.Errorf("failed to begin migration %d: %w", i+1, err)
		}

		if _, err := tx.ExecContext(ctx, schema[i]); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
		// PRAGMA does not accept bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return applied, fmt.Errorf("failed to commit migration %d: %w", i+1, err)
		}
		applied++
	}

	return applied, nil
}
