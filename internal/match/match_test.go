package match

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/blueman82/rcl/internal/rank"
	"github.com/blueman82/rcl/internal/store"
)

func newSearchableDB(t *testing.T) *store.Store {
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

func TestFindBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cmd     string
		pattern string
		want    []Bound
	}{
		{"empty pattern", "git status", "", nil},
		{"no match", "git status", "zzz", nil},
		{"single match", "git status", "status", []Bound{{4, 10}}},
		{"repeated non-overlapping", "foofoofoo", "foo", []Bound{{0, 3}, {3, 6}, {6, 9}}},
		{"case insensitive", "Git Status", "status", []Bound{{4, 10}}},
		{"overlapping pattern collapses to non-overlap", "aaaa", "aa", []Bound{{0, 2}, {2, 4}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := FindBounds(tt.cmd, tt.pattern)
			if len(got) != len(tt.want) {
				t.Fatalf("FindBounds(%q, %q) = %v, want %v", tt.cmd, tt.pattern, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("bound %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestSearch_ReturnsOnlyMatchingRows(t *testing.T) {
	t.Parallel()

	s := newSearchableDB(t)
	ctx := context.Background()

	for _, cmd := range []string{"git status", "git push", "echo hello"} {
		if err := s.Add(ctx, cmd, "sess-1", "/repo", 0); err != nil {
			t.Fatalf("Add(%q) error = %v", cmd, err)
		}
	}
	if _, err := rank.Rebuild(ctx, s.DB(), "/repo", true, rank.Resolve("default"), time.Now()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	results, err := Search(ctx, s.DB(), "git", 10, true)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for _, r := range results {
		if len(r.MatchBounds) == 0 {
			t.Errorf("result %q has no match bounds", r.Cmd)
		}
	}
}

func TestSearch_EmptyPatternReturnsNoRows(t *testing.T) {
	t.Parallel()

	s := newSearchableDB(t)
	ctx := context.Background()

	if err := s.Add(ctx, "git status", "sess-1", "/repo", 0); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if _, err := rank.Rebuild(ctx, s.DB(), "/repo", true, rank.Resolve("default"), time.Now()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	results, err := Search(ctx, s.DB(), "", 10, true)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %d results for empty pattern, want 0", len(results))
	}
}

func TestSearch_OrderByRecencyVsRank(t *testing.T) {
	t.Parallel()

	s := newSearchableDB(t)
	ctx := context.Background()

	// "build-often" gets many runs (ranks high under default weights);
	// "build-recent" runs once, later, so it's most recent.
	for i := 0; i < 5; i++ {
		if err := s.Add(ctx, "build-often", "sess-1", "/repo", 0); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}
	if err := s.Add(ctx, "build-recent", "sess-1", "/repo", 0); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if _, err := rank.Rebuild(ctx, s.DB(), "/repo", true, rank.Resolve("default"), time.Now()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	byRank, err := Search(ctx, s.DB(), "build", 10, true)
	if err != nil {
		t.Fatalf("Search(byRank) error = %v", err)
	}
	if len(byRank) != 2 || byRank[0].Cmd != "build-often" {
		t.Fatalf("byRank = %+v, want build-often first", byRank)
	}

	byRecency, err := Search(ctx, s.DB(), "build", 10, false)
	if err != nil {
		t.Fatalf("Search(byRecency) error = %v", err)
	}
	if len(byRecency) != 2 || byRecency[0].Cmd != "build-recent" {
		t.Fatalf("byRecency = %+v, want build-recent first (most recently run)", byRecency)
	}
}

func TestSearch_LimitCapsResults(t *testing.T) {
	t.Parallel()

	s := newSearchableDB(t)
	ctx := context.Background()

	for _, cmd := range []string{"git a", "git b", "git c"} {
		if err := s.Add(ctx, cmd, "sess-1", "/repo", 0); err != nil {
			t.Fatalf("Add(%q) error = %v", cmd, err)
		}
	}
	if _, err := rank.Rebuild(ctx, s.DB(), "/repo", true, rank.Resolve("default"), time.Now()); err != nil {
		t.Fatalf("Rebuild() error = %v", err)
	}

	results, err := Search(ctx, s.DB(), "git", 2, true)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2 (limit)", len(results))
	}
}
