package rank

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/blueman82/rcl/internal/store"
)

func newTestDB(t *testing.T) *store.Store {
	t.Helper()
	dir := t.TempDir()
	s, err := store.Open(context.Background(),
		filepath.Join(dir, "history.db"),
		filepath.Join(dir, "histfile"),
		filepath.Join(dir, "import.lock"),
		"rcl", nil,
	)
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRebuild_EmptyStoreReturnsNoRows(t *testing.T) {
	t.Parallel()

	s := newTestDB(t)
	rows, err := Rebuild(context.Background(), s.DB(), "/tmp", true, Resolve("default"), time.Now())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestRebuild_FactorsWithinBounds(t *testing.T) {
	t.Parallel()

	s := newTestDB(t)
	ctx := context.Background()

	for _, c := range []struct {
		cmd string
		dir string
	}{
		{"git status", "/repo"},
		{"git push", "/repo"},
		{"ls -la", "/home"},
		{"npm install", "/repo"},
	} {
		if err := s.Add(ctx, c.cmd, "sess-1", c.dir, 0); err != nil {
			t.Fatalf("Add(%q) error = %v", c.cmd, err)
		}
	}
	if err := s.RecordSelection(ctx, "git status", "sess-1", "/repo"); err != nil {
		t.Fatalf("RecordSelection() error = %v", err)
	}
	if err := s.Add(ctx, "git status", "sess-1", "/repo", 0); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	rows, err := Rebuild(ctx, s.DB(), "/repo", true, Resolve("default"), time.Now())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	for _, r := range rows {
		for name, v := range map[string]float64{
			"length":  r.Factors.Length,
			"age":     r.Factors.Age,
			"exit":    r.Factors.Exit,
			"failure": r.Factors.RecentFailure,
			"dir":     r.Factors.Dir,
			"selOcc":  r.Factors.SelectedOccurrences,
			"occ":     r.Factors.Occurrences,
		} {
			if v < 0 || v > 1 {
				t.Errorf("row %q factor %s = %v, want in [0,1]", r.Cmd, name, v)
			}
		}
		if r.Factors.SelectedDir >= 1 {
			t.Errorf("row %q selected_dir_factor = %v, want strictly < 1", r.Cmd, r.Factors.SelectedDir)
		}
	}
}

func TestRebuild_DirFilterExcludesOtherDirectories(t *testing.T) {
	t.Parallel()

	s := newTestDB(t)
	ctx := context.Background()

	if err := s.Add(ctx, "make build", "sess-1", "/repo", 0); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add(ctx, "ls", "sess-1", "/home", 0); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	rows, err := Rebuild(ctx, s.DB(), "/repo", false, Resolve("default"), time.Now())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Cmd != "make build" {
		t.Fatalf("rows = %+v, want only the /repo row", rows)
	}

	rows, err = Rebuild(ctx, s.DB(), "/repo", true, Resolve("default"), time.Now())
	if err != nil {
		t.Fatalf("Rebuild() anywhere=true error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows with anywhere=true, want 2", len(rows))
	}
}

func TestRebuild_RecentFailureFactorDecaysAfterWindow(t *testing.T) {
	t.Parallel()

	s := newTestDB(t)
	ctx := context.Background()

	now := time.Now()
	if err := s.Add(ctx, "git push", "sess-1", "/tmp", 1); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	rows, err := Rebuild(ctx, s.DB(), "/tmp", true, Resolve("default"), now)
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Factors.RecentFailure != 1 {
		t.Fatalf("rows = %+v, want recent_failure_factor=1 within window", rows)
	}

	later := now.Add(3 * time.Minute)
	rows, err = Rebuild(ctx, s.DB(), "/tmp", true, Resolve("default"), later)
	if err != nil {
		t.Fatalf("Rebuild() later error = %v", err)
	}
	if len(rows) != 1 || rows[0].Factors.RecentFailure != 0 {
		t.Fatalf("rows = %+v, want recent_failure_factor=0 after window elapses", rows)
	}
}

func TestRebuild_SuccessAfterFailureClearsWhenFailed(t *testing.T) {
	t.Parallel()

	s := newTestDB(t)
	ctx := context.Background()

	if err := s.Add(ctx, "flaky-test", "sess-1", "/repo", 1); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add(ctx, "flaky-test", "sess-1", "/repo", 0); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	rows, err := Rebuild(ctx, s.DB(), "/repo", true, Resolve("default"), time.Now())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Factors.RecentFailure != 0 {
		t.Fatalf("rows = %+v, want recent_failure_factor=0 (last run succeeded)", rows)
	}
	if rows[0].Factors.Exit != 1 {
		t.Errorf("exit_factor = %v, want 1 (last run succeeded, exit_code inverted to 1)", rows[0].Factors.Exit)
	}
}

func TestRebuild_DirFilteredNormalizationUsesGlobalMaxima(t *testing.T) {
	t.Parallel()

	s := newTestDB(t)
	ctx := context.Background()

	// /other holds a much longer, far more frequent command than anything
	// in /repo. A dir-filtered rebuild (anywhere=false) must still
	// normalize length_factor/occurrences_factor against /other's maxima,
	// not against /repo's local ones.
	for i := 0; i < 10; i++ {
		if err := s.Add(ctx, "a-very-long-command-name-indeed", "sess-1", "/other", 0); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	if err := s.Add(ctx, "ls -la", "sess-1", "/repo", 0); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	rows, err := Rebuild(ctx, s.DB(), "/repo", false, Resolve("default"), time.Now())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Cmd != "ls -la" {
		t.Fatalf("rows = %+v, want only the /repo row", rows)
	}

	r := rows[0]
	if r.Factors.Length >= 1 {
		t.Errorf("length_factor = %v, want < 1 (normalized against /other's longer command)", r.Factors.Length)
	}
	if r.Factors.Occurrences >= 1 {
		t.Errorf("occurrences_factor = %v, want < 1 (normalized against /other's higher count)", r.Factors.Occurrences)
	}
}

func TestRebuild_HighestOccurrenceScoresHigherByDefault(t *testing.T) {
	t.Parallel()

	s := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.Add(ctx, "git status", "sess-1", "/repo", 0); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	if err := s.Add(ctx, "rare-command", "sess-1", "/repo", 0); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	rows, err := Rebuild(ctx, s.DB(), "/repo", true, Resolve("default"), time.Now())
	if err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	var frequent, rare Row
	for _, r := range rows {
		switch r.Cmd {
		case "git status":
			frequent = r
		case "rare-command":
			rare = r
		}
	}
	if frequent.Rank <= rare.Rank {
		t.Errorf("frequent.Rank=%v should exceed rare.Rank=%v under default weights", frequent.Rank, rare.Rank)
	}
}
