// Package rank builds contextual_commands, the per-query temporary view
// the match package reads from: one row per distinct command reachable
// under the current directory filter, each carrying a normalized feature
// vector and a scalar rank.
package rank

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// recentFailureWindow is the span after a failed execution during which
// recent_failure_factor lights up for that command's group.
const recentFailureWindow = 120 * time.Second

// Factors is the normalized feature vector for one contextual_commands row,
// each value in [0, 1] except SelectedDir, which is strictly < 1.
type Factors struct {
	Length              float64
	Age                 float64
	Exit                float64
	RecentFailure       float64
	Dir                 float64
	SelectedDir         float64
	SelectedOccurrences float64
	Occurrences         float64
}

// Row is one contextual_commands entry after Rebuild.
type Row struct {
	Cmd     string
	LastRun int64
	Factors Factors
	Rank    float64
}

type rawGroup struct {
	cmd           string
	lastRun       int64
	cmdLength     int64
	exitWeighted  int64
	totalCnt      int64
	recentFailure int64
	dirCnt        int64
	selectedDir   int64
	totalSelected int64
}

// Rebuild recomputes contextual_commands from commands, grouped by cmd,
// filtered to rows whose dir equals currentDir unless anywhere is true. It replaces
// whatever contextual_commands held before in one DROP+CREATE, so this is
// the ranker's "rebuild" — called on entry to search mode and whenever the
// anywhere toggle flips, never on every keystroke.
func Rebuild(ctx context.Context, db *sql.DB, currentDir string, anywhere bool, weights Weights, now time.Time) ([]Row, error) {
	groups, err := queryRawGroups(ctx, db, currentDir, anywhere, now)
	if err != nil {
		return nil, fmt.Errorf("rank: aggregate commands: %w", err)
	}

	maxima, err := queryGlobalMaxima(ctx, db)
	if err != nil {
		return nil, fmt.Errorf("rank: aggregate maxima: %w", err)
	}

	rows := normalize(groups, maxima, weights)

	if err := store(ctx, db, rows); err != nil {
		return nil, fmt.Errorf("rank: store contextual_commands: %w", err)
	}

	return rows, nil
}

// queryRawGroups runs the single aggregate query over commands.
func queryRawGroups(ctx context.Context, db *sql.DB, currentDir string, anywhere bool, now time.Time) ([]rawGroup, error) {
	// An empty currentDir means the caller has no directory context (e.g.
	// PWD unset); there is then nothing meaningful to filter or credit by
	// directory, so treat it as if anywhere were forced on.
	dirFilterActive := !anywhere && currentDir != ""

	rows, err := db.QueryContext(ctx, `
		SELECT
			cmd,
			MAX(when_run) AS last_run,
			MAX(length(cmd)) AS cmd_length,
			SUM(exit_code * cnt) AS exit_weighted,
			SUM(cnt) AS total_cnt,
			MAX(CASE WHEN exit_code = 0 AND when_failed > 0 AND (? - when_failed) < ? THEN 1 ELSE 0 END) AS recent_failure,
			SUM(CASE WHEN dir = ? THEN cnt ELSE 0 END) AS dir_cnt,
			SUM(CASE WHEN dir = ? THEN selected ELSE 0 END) AS selected_dir,
			SUM(selected) AS total_selected
		FROM commands
		WHERE (? OR dir = ?)
		GROUP BY cmd
	`,
		now.Unix(), int64(recentFailureWindow.Seconds()),
		currentDir,
		currentDir,
		!dirFilterActive, currentDir,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rawGroup
	for rows.Next() {
		var g rawGroup
		if err := rows.Scan(&g.cmd, &g.lastRun, &g.cmdLength, &g.exitWeighted, &g.totalCnt,
			&g.recentFailure, &g.dirCnt, &g.selectedDir, &g.totalSelected); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// globalMaxima holds the normalization denominators computed across every
// row in commands, independent of the current directory filter.
type globalMaxima struct {
	maxLength              int64
	maxOccurrences         int64
	maxSelectedOccurrences int64
	minWhenRun             int64
	maxWhenRun             int64
}

// queryGlobalMaxima computes max_length, max_occurrences,
// max_selected_occurrences, and the when_run range across all of commands,
// unfiltered by directory — these are the normalization denominators a
// directory-scoped rebuild still measures every feature against, so the
// rank ordering doesn't shift just because the caller is standing in a
// smaller or larger directory.
func queryGlobalMaxima(ctx context.Context, db *sql.DB) (globalMaxima, error) {
	var m globalMaxima

	row := db.QueryRowContext(ctx, `SELECT IFNULL(MIN(when_run), 0), IFNULL(MAX(when_run), 0) FROM commands`)
	if err := row.Scan(&m.minWhenRun, &m.maxWhenRun); err != nil {
		return globalMaxima{}, err
	}
	if m.maxWhenRun == m.minWhenRun {
		// Every row shares the same last_run: decrement the minimum so the
		// age_factor division below is well-defined.
		m.minWhenRun--
	}

	row = db.QueryRowContext(ctx, `SELECT IFNULL(MAX(c), 1) FROM (SELECT SUM(cnt) AS c FROM commands GROUP BY cmd)`)
	if err := row.Scan(&m.maxOccurrences); err != nil {
		return globalMaxima{}, err
	}
	if m.maxOccurrences == 0 {
		m.maxOccurrences = 1
	}

	row = db.QueryRowContext(ctx, `SELECT IFNULL(MAX(c), 1) FROM (SELECT SUM(selected) AS c FROM commands WHERE selected != 0 GROUP BY cmd)`)
	if err := row.Scan(&m.maxSelectedOccurrences); err != nil {
		return globalMaxima{}, err
	}
	if m.maxSelectedOccurrences == 0 {
		m.maxSelectedOccurrences = 1
	}

	row = db.QueryRowContext(ctx, `SELECT IFNULL(MAX(LENGTH(cmd)), 1) FROM commands`)
	if err := row.Scan(&m.maxLength); err != nil {
		return globalMaxima{}, err
	}
	if m.maxLength == 0 {
		m.maxLength = 1
	}

	return m, nil
}

// normalize computes the [0,1] feature factors and rank for every group,
// normalizing against maxima, which span the entire commands table rather
// than just the directory-filtered groups passed in.
func normalize(groups []rawGroup, maxima globalMaxima, weights Weights) []Row {
	if len(groups) == 0 {
		return nil
	}

	denom := maxima.maxWhenRun - maxima.minWhenRun

	rows := make([]Row, 0, len(groups))
	for _, g := range groups {
		f := Factors{
			Length:              float64(g.cmdLength) / float64(maxima.maxLength),
			Age:                 float64(maxima.maxWhenRun-g.lastRun) / float64(denom),
			Exit:                ratio(g.exitWeighted, g.totalCnt),
			RecentFailure:       float64(g.recentFailure),
			Dir:                 ratio(g.dirCnt, g.totalCnt),
			SelectedDir:         float64(g.selectedDir) / float64(g.totalSelected+1),
			SelectedOccurrences: float64(g.totalSelected) / float64(maxima.maxSelectedOccurrences),
			Occurrences:         float64(g.totalCnt) / float64(maxima.maxOccurrences),
		}
		rows = append(rows, Row{
			Cmd:     g.cmd,
			LastRun: g.lastRun,
			Factors: f,
			Rank:    weights.Score(f),
		})
	}
	return rows
}

func ratio(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// store replaces contextual_commands with rows, in one transaction.
func store(ctx context.Context, db *sql.DB, rows []Row) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS contextual_commands`); err != nil {
		return fmt.Errorf("drop: %w", err)
	}
	if _, err := tx.ExecContext(ctx, createContextualCommandsSQL); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO contextual_commands (
			cmd, last_run, length_factor, age_factor, exit_factor,
			recent_failure_factor, dir_factor, selected_dir_factor,
			selected_occurrences_factor, occurrences_factor, rank
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			r.Cmd, r.LastRun,
			r.Factors.Length, r.Factors.Age, r.Factors.Exit, r.Factors.RecentFailure,
			r.Factors.Dir, r.Factors.SelectedDir, r.Factors.SelectedOccurrences, r.Factors.Occurrences,
			r.Rank,
		)
		if err != nil {
			return fmt.Errorf("insert row %q: %w", r.Cmd, err)
		}
	}

	return tx.Commit()
}

const createContextualCommandsSQL = `
CREATE TEMP TABLE contextual_commands (
	cmd                          TEXT NOT NULL PRIMARY KEY,
	last_run                     INTEGER NOT NULL,
	length_factor                REAL NOT NULL,
	age_factor                   REAL NOT NULL,
	exit_factor                  REAL NOT NULL,
	recent_failure_factor        REAL NOT NULL,
	dir_factor                   REAL NOT NULL,
	selected_dir_factor          REAL NOT NULL,
	selected_occurrences_factor  REAL NOT NULL,
	occurrences_factor           REAL NOT NULL,
	rank                         REAL NOT NULL
)
`
