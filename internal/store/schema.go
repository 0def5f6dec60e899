package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// migrate runs schema migrations in order, recording each applied version in
// schema_meta — the teacher's versioned-migration-table idiom, generalized
// from three migration steps down to the two this engine needs.
func migrate(ctx context.Context, db *sql.DB) error {
	current := 0
	row := db.QueryRowContext(ctx, `SELECT version FROM schema_meta ORDER BY version DESC LIMIT 1`)
	switch err := row.Scan(&current); {
	case err == nil:
		// current already set
	case errors.Is(err, sql.ErrNoRows):
		current = 0
	case isNoSuchTable(err):
		current = 0
	default:
		return fmt.Errorf("read schema version: %w", err)
	}

	migrations := []struct {
		version int
		sql     string
	}{
		{1, migrationV1},
		{2, migrationV2},
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("migration v%d: %w", m.version, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT OR REPLACE INTO schema_meta (version, applied_at_unix) VALUES (?, ?)`,
			m.version, time.Now().Unix(),
		); err != nil {
			return fmt.Errorf("record migration v%d: %w", m.version, err)
		}
	}

	return nil
}

func isNoSuchTable(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no such table")
}

// migrationV1 creates the durable commands table and the schema version
// tracker.
const migrationV1 = `
CREATE TABLE IF NOT EXISTS schema_meta (
  version INTEGER PRIMARY KEY,
  applied_at_unix INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS commands (
  id          INTEGER PRIMARY KEY AUTOINCREMENT,
  cmd         TEXT NOT NULL,
  cnt         INTEGER NOT NULL,
  when_run    INTEGER NOT NULL,
  when_failed INTEGER NOT NULL DEFAULT 0,
  exit_code   INTEGER NOT NULL,
  selected    INTEGER NOT NULL DEFAULT 0,
  dir         TEXT
);

-- SQLite treats every NULL as distinct from every other NULL in a unique
-- index, so a plain UNIQUE(cmd, dir) would not dedupe imported rows (whose
-- dir is NULL) against each other. Indexing IFNULL(dir, '') instead makes
-- "no directory" a single comparable value and keeps (cmd, dir) unique in
-- the sense the store invariant requires.
CREATE UNIQUE INDEX IF NOT EXISTS idx_commands_cmd_dir ON commands(cmd, IFNULL(dir, ''));
CREATE INDEX IF NOT EXISTS idx_commands_dir ON commands(dir);
`

// migrationV2 creates the ephemeral per-session selection log.
const migrationV2 = `
CREATE TABLE IF NOT EXISTS selected_commands (
  id         INTEGER PRIMARY KEY AUTOINCREMENT,
  cmd        TEXT NOT NULL,
  session_id TEXT NOT NULL,
  dir        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_selected_session_cmd ON selected_commands(session_id, cmd);
`
