package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/blueman82/rcl/internal/histfile"
	"github.com/blueman82/rcl/internal/rlog"
)

// Row is one durable commands row, as read back for diagnostics/tests.
type Row struct {
	ID         int64
	Cmd        string
	Cnt        int64
	WhenRun    int64
	WhenFailed int64
	ExitCode   int
	Selected   int64
	Dir        sql.NullString
}

// Add records one shell command execution. Excluded commands (see
// isExcluded) are silently dropped — this is policy, not an error.
//
// On conflict with an existing (cmd, dir) row it increments cnt, refreshes
// when_run, re-derives exit_code/when_failed from the new execution, and
// credits selected if a matching pending selected_commands row existed for
// this session+dir (consuming it in the same statement sequence). All
// remaining selected_commands rows for the session are purged afterward,
// bounding that table regardless of whether this particular command
// matched a pending selection.
func (s *Store) Add(ctx context.Context, cmd, sessionID, dir string, exitCode int) error {
	if s.isExcluded(cmd) {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: add begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	success := 0
	whenFailed := int64(0)
	if exitCode == 0 {
		success = 1
	} else {
		whenFailed = now
	}

	var dirArg any
	if dir != "" {
		dirArg = dir
	}

	selectedCredit := int64(0)
	if sessionID != "" {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM selected_commands WHERE cmd = ? AND session_id = ? AND dir = ?`,
			cmd, sessionID, dir,
		)
		if err != nil {
			return fmt.Errorf("store: consume pending selection: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("store: rows affected: %w", err)
		}
		if n > 0 {
			selectedCredit = 1
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO commands (cmd, cnt, when_run, when_failed, exit_code, selected, dir)
		VALUES (?, 1, ?, ?, ?, ?, ?)
		ON CONFLICT(cmd, IFNULL(dir, '')) DO UPDATE SET
			cnt = cnt + 1,
			when_run = excluded.when_run,
			exit_code = excluded.exit_code,
			when_failed = excluded.when_failed,
			selected = selected + ?
	`, cmd, now, whenFailed, success, selectedCredit, dirArg, selectedCredit)
	if err != nil {
		return fmt.Errorf("store: upsert command: %w", err)
	}

	if sessionID != "" {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM selected_commands WHERE session_id = ?`, sessionID,
		); err != nil {
			return fmt.Errorf("store: purge stale selections: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: add commit: %w", err)
	}
	return nil
}

// RecordSelection inserts one pending selection row, to be consumed by a
// subsequent Add for the same (cmd, session_id, dir) triple.
func (s *Store) RecordSelection(ctx context.Context, cmd, sessionID, dir string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO selected_commands (cmd, session_id, dir) VALUES (?, ?, ?)`,
		cmd, sessionID, dir,
	)
	if err != nil {
		return fmt.Errorf("store: record selection: %w", err)
	}
	return nil
}

// Delete removes every commands row matching cmd (across all directories)
// and any contextual_commands row for it, in one transaction, then rewrites
// $HISTFILE to drop the same command line. The two stores can't share a
// transaction, so the database side commits first; a failure rewriting the
// history file is logged, not returned, since the authoritative store is
// already consistent.
func (s *Store) Delete(ctx context.Context, cmd string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: delete begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM commands WHERE cmd = ?`, cmd); err != nil {
		return fmt.Errorf("store: delete commands: %w", err)
	}

	// contextual_commands is a temp table that may not exist yet (no query
	// has run on this connection); that is not an error.
	if _, err := tx.ExecContext(ctx, `DELETE FROM contextual_commands WHERE cmd = ?`, cmd); err != nil && !isNoSuchTable(err) {
		return fmt.Errorf("store: delete contextual_commands: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: delete commit: %w", err)
	}

	if err := histfile.RemoveCommand(s.histPath, cmd); err != nil {
		rlog.Warn("failed to remove command from history file", "cmd", cmd, "error", err)
	}

	return nil
}

// RenameDir rewrites the dir prefix of every row whose directory equals old
// or begins with old + "/".
func (s *Store) RenameDir(ctx context.Context, oldDir, newDir string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE commands
		SET dir = ? || substr(dir, length(?) + 1)
		WHERE dir = ? OR dir LIKE ? || '/%'
	`, newDir, oldDir, oldDir, oldDir)
	if err != nil {
		return fmt.Errorf("store: rename dir: %w", err)
	}
	return nil
}

// All returns every commands row, for diagnostics and tests.
func (s *Store) All(ctx context.Context) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cmd, cnt, when_run, when_failed, exit_code, selected, dir
		FROM commands ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("store: query all: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.ID, &r.Cmd, &r.Cnt, &r.WhenRun, &r.WhenFailed, &r.ExitCode, &r.Selected, &r.Dir); err != nil {
			return nil, fmt.Errorf("store: scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// PendingSelections returns the number of selected_commands rows for a session, for
// tests verifying the table empties after Add.
func (s *Store) PendingSelections(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM selected_commands WHERE session_id = ?`, sessionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count pending selections: %w", err)
	}
	return n, nil
}
