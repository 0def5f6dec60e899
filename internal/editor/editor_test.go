package editor

import "testing"

func TestInsert_AdvancesCursorAndAppends(t *testing.T) {
	t.Parallel()

	e := New(80)
	for _, c := range "git" {
		e.Insert(c)
	}
	if e.Command() != "git" || e.Cursor() != 3 || e.Len() != 3 {
		t.Fatalf("got command=%q cursor=%d len=%d, want %q 3 3", e.Command(), e.Cursor(), e.Len(), "git")
	}
}

func TestInsert_NoopAtCapacity(t *testing.T) {
	t.Parallel()

	e := New(3)
	for _, c := range "abcd" {
		e.Insert(c)
	}
	if e.Command() != "abc" || e.Len() != 3 || e.Cursor() != 3 {
		t.Fatalf("got command=%q len=%d cursor=%d, want \"abc\" 3 3", e.Command(), e.Len(), e.Cursor())
	}
}

func TestInsert_MidlineInsertsAtCursor(t *testing.T) {
	t.Parallel()

	e := New(80)
	for _, c := range "gtstatus" {
		e.Insert(c)
	}
	e.MoveTo(1)
	e.Insert('i')
	if e.Command() != "gitstatus" || e.Cursor() != 2 {
		t.Fatalf("got command=%q cursor=%d, want \"gitstatus\" 2", e.Command(), e.Cursor())
	}
}

func TestDelete_BackwardAndForward(t *testing.T) {
	t.Parallel()

	e := New(80)
	for _, c := range "abc" {
		e.Insert(c)
	}
	e.Delete(Backward)
	if e.Command() != "ab" || e.Cursor() != 2 {
		t.Fatalf("after Backward: got %q cursor=%d, want \"ab\" 2", e.Command(), e.Cursor())
	}

	e.MoveTo(0)
	e.Delete(Forward)
	if e.Command() != "b" || e.Cursor() != 0 {
		t.Fatalf("after Forward: got %q cursor=%d, want \"b\" 0", e.Command(), e.Cursor())
	}
}

func TestDelete_BackwardAtStartIsNoop(t *testing.T) {
	t.Parallel()

	e := New(80)
	e.Insert('a')
	e.MoveTo(0)
	e.Delete(Backward)
	if e.Command() != "a" || e.Cursor() != 0 {
		t.Fatalf("got %q cursor=%d, want unchanged \"a\" 0", e.Command(), e.Cursor())
	}
}

func TestDelete_ForwardAtEndIsNoop(t *testing.T) {
	t.Parallel()

	e := New(80)
	e.Insert('a')
	e.Delete(Forward)
	if e.Command() != "a" || e.Cursor() != 1 {
		t.Fatalf("got %q cursor=%d, want unchanged \"a\" 1", e.Command(), e.Cursor())
	}
}

func TestDelete_BOLAndEOL(t *testing.T) {
	t.Parallel()

	e := newWithText("git commit", 5)
	e.Delete(BOL)
	if e.Command() != "ommit" || e.Cursor() != 0 {
		t.Fatalf("after BOL: got %q cursor=%d, want \"ommit\" 0", e.Command(), e.Cursor())
	}

	e2 := newWithText("git commit", 4)
	e2.Delete(EOL)
	if e2.Command() != "git " || e2.Cursor() != 4 {
		t.Fatalf("after EOL: got %q cursor=%d, want \"git \" 4", e2.Command(), e2.Cursor())
	}
}

// TestDelete_BackwardWordSequence exercises the spec's worked example: four
// consecutive BackwardWord deletions from the end of "git  commit -m foo".
func TestDelete_BackwardWordSequence(t *testing.T) {
	t.Parallel()

	e := newWithText("git  commit -m foo", 19)

	steps := []struct {
		wantCmd    string
		wantCursor int
	}{
		{"git  commit -m ", 15},
		{"git  commit ", 12},
		{"git  ", 5},
		{"", 0},
	}

	for i, step := range steps {
		e.Delete(BackwardWord)
		if e.Command() != step.wantCmd || e.Cursor() != step.wantCursor {
			t.Fatalf("step %d: got command=%q cursor=%d, want %q %d",
				i, e.Command(), e.Cursor(), step.wantCmd, step.wantCursor)
		}
	}
}

func TestDelete_ForwardWordRemovesRunKeepsFollowingWhitespace(t *testing.T) {
	t.Parallel()

	e := newWithText("git  commit -m foo", 0)
	e.Delete(ForwardWord)
	if e.Command() != "  commit -m foo" || e.Cursor() != 0 {
		t.Fatalf("got command=%q cursor=%d, want \"  commit -m foo\" 0", e.Command(), e.Cursor())
	}
}

func TestMove_WordMotionsDoNotMutateText(t *testing.T) {
	t.Parallel()

	e := newWithText("git  commit -m foo", 19)
	e.Move(BackwardWord)
	if e.Command() != "git  commit -m foo" {
		t.Fatalf("Move must not mutate text, got %q", e.Command())
	}
	if e.Cursor() != 15 {
		t.Errorf("cursor = %d, want 15", e.Cursor())
	}
}

func TestMove_BOLEOLBackwardForward(t *testing.T) {
	t.Parallel()

	e := newWithText("abc", 1)
	e.Move(BOL)
	if e.Cursor() != 0 {
		t.Errorf("BOL: cursor = %d, want 0", e.Cursor())
	}
	e.Move(EOL)
	if e.Cursor() != 3 {
		t.Errorf("EOL: cursor = %d, want 3", e.Cursor())
	}
	e.Move(Backward)
	if e.Cursor() != 2 {
		t.Errorf("Backward: cursor = %d, want 2", e.Cursor())
	}
	e.Move(Forward)
	if e.Cursor() != 3 {
		t.Errorf("Forward: cursor = %d, want 3", e.Cursor())
	}
}

func TestMoveTo_ClampsToRange(t *testing.T) {
	t.Parallel()

	e := newWithText("abc", 0)
	e.MoveTo(-5)
	if e.Cursor() != 0 {
		t.Errorf("MoveTo(-5) = %d, want 0", e.Cursor())
	}
	e.MoveTo(500)
	if e.Cursor() != 3 {
		t.Errorf("MoveTo(500) = %d, want 3", e.Cursor())
	}
}

func TestSetCapacity_TruncatesAndClampsCursor(t *testing.T) {
	t.Parallel()

	e := newWithText("git commit -m foo", 18)
	e.SetCapacity(4)
	if e.Command() != "git " || e.Len() != 4 {
		t.Fatalf("got command=%q len=%d, want \"git \" 4", e.Command(), e.Len())
	}
	if e.Cursor() != 4 {
		t.Errorf("cursor = %d, want 4 (min(cursor, cap'))", e.Cursor())
	}
}

func TestSetCapacity_RaisingCapacityKeepsText(t *testing.T) {
	t.Parallel()

	e := newWithText("git", 1)
	e.SetCapacity(80)
	if e.Command() != "git" || e.Cap() != 80 {
		t.Fatalf("got command=%q cap=%d, want \"git\" 80", e.Command(), e.Cap())
	}
}

func TestInsert_MultiByteGrapheme(t *testing.T) {
	t.Parallel()

	e := New(80)
	for _, c := range "café" {
		e.Insert(c)
	}
	if e.Len() != 4 {
		t.Errorf("Len() = %d, want 4 grapheme clusters for %q", e.Len(), e.Command())
	}
	e.Delete(Backward)
	if e.Command() != "caf" {
		t.Errorf("got %q, want \"caf\"", e.Command())
	}
}

func newWithText(s string, cursor int) *Editor {
	e := New(len(s) + 1)
	for _, c := range s {
		e.Insert(c)
	}
	e.MoveTo(cursor)
	return e
}
