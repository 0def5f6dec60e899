// Package store provides the embedded SQLite-backed persistent store for
// rcl's command history: the durable commands table, the ephemeral
// selected_commands table, and the per-query contextual_commands view the
// rank package rebuilds.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/blueman82/rcl/internal/filelock"
	"github.com/blueman82/rcl/internal/histfile"
	"github.com/blueman82/rcl/internal/rlog"
)

// excludedLiterals are commands never recorded by Add, regardless of exit
// code or directory.
var excludedLiterals = map[string]bool{
	"pwd":     true,
	"ls":      true,
	"cd":      true,
	"cd ..":   true,
	"clear":   true,
	"history": true,
}

// Store owns the database connection for its lifetime.
type Store struct {
	db       *sql.DB
	selfName string // literal binary name; commands starting with this are excluded
	excludes map[string]bool
	histPath string // $HISTFILE, kept so Delete can rewrite it too
}

// Open opens (and if necessary creates and seeds) the database at dbPath.
// selfName is the tool's own binary name, used to exclude self-invocations
// from Add. extraExcludes augments the built-in exclusion literal set.
func Open(ctx context.Context, dbPath, histFilePath, lockPath, selfName string, extraExcludes []string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("store: create data dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	// A single physical connection, held open for the Store's lifetime: the
	// rank package rebuilds contextual_commands as a TEMP TABLE, which is
	// only visible on the connection that created it. Handing out more than
	// one pooled connection would make that table randomly disappear from
	// the match package's point of view.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect to database: %w", err)
	}

	firstOpen, err := isFreshDatabase(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	excludes := make(map[string]bool, len(excludedLiterals)+len(extraExcludes))
	for k := range excludedLiterals {
		excludes[k] = true
	}
	for _, e := range extraExcludes {
		excludes[e] = true
	}

	s := &Store{db: db, selfName: selfName, excludes: excludes, histPath: histFilePath}

	if firstOpen {
		if err := s.seedFromHistFile(ctx, histFilePath, lockPath); err != nil {
			// Seeding failure is not schema-creation failure: log and continue
			// with an empty store rather than aborting startup.
			rlog.Warn("history import failed", "error", err)
		}
	}

	return s, nil
}

// DB exposes the underlying connection for the rank and match packages,
// which issue ad-hoc aggregate/temp-view SQL directly.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database connection, checkpointing the WAL first.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}

func isFreshDatabase(ctx context.Context, db *sql.DB) (bool, error) {
	var name string
	row := db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name='commands'`)
	err := row.Scan(&name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("store: inspect schema: %w", err)
	default:
		return false, nil
	}
}

// seedFromHistFile imports the shell's existing history file on first open.
// An advisory lock prevents two concurrent first-run invocations (e.g. two
// terminals opened at once) from importing the same file twice.
func (s *Store) seedFromHistFile(ctx context.Context, histPath, lockPath string) error {
	lock := filelock.New(lockPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return err
	}
	if !acquired {
		// Another process is importing right now; skip, it will finish the job.
		return nil
	}
	defer lock.Unlock()

	lines, err := histfile.ReadCommands(histPath)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO commands (cmd, cnt, when_run, when_failed, exit_code, selected, dir)
		VALUES (?, 1, ?, 0, 0, 0, NULL)
		ON CONFLICT(cmd, IFNULL(dir, '')) DO UPDATE SET
			cnt = cnt + 1,
			when_run = excluded.when_run
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, cmd := range lines {
		if s.isExcluded(cmd) {
			continue
		}
		if _, err := stmt.ExecContext(ctx, cmd, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// isExcluded reports whether cmd should never be recorded: empty, a leading
// space, a literal in the exclusion set, or an invocation of rcl itself.
func (s *Store) isExcluded(cmd string) bool {
	if cmd == "" {
		return true
	}
	if cmd[0] == ' ' {
		return true
	}
	if s.excludes[cmd] {
		return true
	}
	if s.selfName != "" {
		if len(cmd) >= len(s.selfName) && cmd[:len(s.selfName)] == s.selfName {
			return true
		}
	}
	return false
}
