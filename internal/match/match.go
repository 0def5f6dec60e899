// Package match queries the rank package's contextual_commands view for a
// substring pattern, ordered by either rank or recency, and annotates each
// result with the byte ranges where the pattern occurred.
package match

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Bound is a non-overlapping, ascending, in-range match span, in bytes.
type Bound struct {
	Start int
	End   int
}

// Result is one matched command, ready for the UI to render.
type Result struct {
	Cmd         string
	LastRun     int64
	MatchBounds []Bound
}

// Search finds up to limit rows in contextual_commands whose cmd contains
// pattern, ordered by rank descending when byRank is set, else by last_run
// descending. Matching is case-insensitive, mirroring SQLite's default LIKE
// behavior for ASCII. Rows with no resulting match bound (including every
// row when pattern is empty) are dropped, not returned as zero-bound
// matches.
func Search(ctx context.Context, db *sql.DB, pattern string, limit int, byRank bool) ([]Result, error) {
	orderBy := "last_run"
	if byRank {
		orderBy = "rank"
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
		SELECT cmd, last_run FROM contextual_commands
		WHERE cmd LIKE '%%' || ? || '%%'
		ORDER BY %s DESC
		LIMIT ?
	`, orderBy), pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("match: query contextual_commands: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var cmd string
		var lastRun int64
		if err := rows.Scan(&cmd, &lastRun); err != nil {
			return nil, fmt.Errorf("match: scan row: %w", err)
		}

		bounds := FindBounds(cmd, pattern)
		if len(bounds) == 0 {
			continue
		}

		out = append(out, Result{Cmd: cmd, LastRun: lastRun, MatchBounds: bounds})
	}
	return out, rows.Err()
}

// FindBounds returns every non-overlapping, left-to-right, case-insensitive
// occurrence of pattern within cmd as byte offsets. An empty pattern yields
// no bounds.
func FindBounds(cmd, pattern string) []Bound {
	if pattern == "" {
		return nil
	}

	lowerCmd := strings.ToLower(cmd)
	lowerPattern := strings.ToLower(pattern)

	var bounds []Bound
	pos := 0
	for {
		idx := strings.Index(lowerCmd[pos:], lowerPattern)
		if idx == -1 {
			break
		}
		start := pos + idx
		end := start + len(lowerPattern)
		bounds = append(bounds, Bound{Start: start, End: end})
		pos = end
	}
	return bounds
}
