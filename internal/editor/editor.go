// Package editor implements a grapheme-cluster-aware single-line text
// editor: cursor motion and deletion by character, line, and word, with a
// bounded capacity enforced on every mutation.
package editor

import (
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
)

// Motion identifies a cursor movement or deletion span.
type Motion int

const (
	Backward Motion = iota
	Forward
	BOL
	EOL
	BackwardWord
	ForwardWord
)

// Editor holds one line of input text, a grapheme-index cursor, and a
// grapheme-count capacity. The backing string is re-segmented and
// re-truncated on every mutation, so it always holds exactly the first
// min(cap, cluster_count) clusters.
type Editor struct {
	text     string
	cursor   int
	capacity int
}

// New returns an empty editor with the given grapheme-cluster capacity.
func New(capacity int) *Editor {
	if capacity < 0 {
		capacity = 0
	}
	return &Editor{capacity: capacity}
}

func (e *Editor) Command() string { return e.text }
func (e *Editor) Cursor() int     { return e.cursor }
func (e *Editor) Cap() int        { return e.capacity }
func (e *Editor) Len() int        { return len(clusters(e.text)) }

// Clusters returns the text split into its grapheme clusters, for callers
// (the UI Driver) that need to render a cursor at a grapheme index.
func (e *Editor) Clusters() []string { return clusters(e.text) }

// Insert adds one scalar at the cursor position. A no-op if the cursor is
// already at capacity. The merged text is re-segmented from scratch, since
// the inserted rune can combine with a neighboring cluster (e.g. a
// combining mark) and change cluster boundaries the naive splice wouldn't
// predict.
func (e *Editor) Insert(c rune) {
	if e.cursor >= e.capacity {
		return
	}
	cs := clusters(e.text)
	cursor := clamp(e.cursor, 0, len(cs))

	merged := make([]string, 0, len(cs)+1)
	merged = append(merged, cs[:cursor]...)
	merged = append(merged, string(c))
	merged = append(merged, cs[cursor:]...)

	e.applyClamped(clusters(join(merged)), cursor+1)
}

// Delete removes the span identified by motion and repositions the cursor
// per §4.4: Backward/Forward remove one grapheme, BOL/EOL remove to an
// edge, and the word motions remove a whitespace-delimited run.
func (e *Editor) Delete(m Motion) {
	cs := clusters(e.text)
	n := len(cs)
	cursor := clamp(e.cursor, 0, n)

	var start, end, newCursor int
	switch m {
	case Backward:
		if cursor == 0 {
			return
		}
		start, end, newCursor = cursor-1, cursor, cursor-1
	case Forward:
		if cursor >= n {
			return
		}
		start, end, newCursor = cursor, cursor+1, cursor
	case BOL:
		start, end, newCursor = 0, cursor, 0
	case EOL:
		start, end, newCursor = cursor, n, cursor
	case ForwardWord:
		b := forwardWordBoundary(cs, cursor)
		start, end, newCursor = cursor, b, cursor
	case BackwardWord:
		b := backwardWordBoundary(cs, cursor)
		start, end, newCursor = b, cursor, b
	default:
		return
	}

	e.applyClamped(removeSpan(cs, start, end), newCursor)
}

// Move repositions the cursor per motion, clamped to [0, len]. It never
// mutates the text.
func (e *Editor) Move(m Motion) {
	cs := clusters(e.text)
	n := len(cs)
	cursor := clamp(e.cursor, 0, n)

	switch m {
	case BOL:
		cursor = 0
	case EOL:
		cursor = n
	case Backward:
		if cursor > 0 {
			cursor--
		}
	case Forward:
		if cursor < n {
			cursor++
		}
	case ForwardWord:
		cursor = forwardWordBoundary(cs, cursor)
	case BackwardWord:
		cursor = backwardWordBoundary(cs, cursor)
	}

	e.cursor = clamp(cursor, 0, n)
}

// MoveTo is the Exact(i) motion: jump directly to grapheme index i, clamped
// to [0, len].
func (e *Editor) MoveTo(i int) {
	e.cursor = clamp(i, 0, e.Len())
}

// SetCapacity re-truncates the text to the new capacity and clamps the
// cursor into range.
func (e *Editor) SetCapacity(newCap int) {
	if newCap < 0 {
		newCap = 0
	}
	e.capacity = newCap
	e.applyClamped(clusters(e.text), e.cursor)
}

// applyClamped truncates cs to the first min(cap, len(cs)) clusters, sets
// the backing text from them, and clamps cursor into the resulting range.
// Every mutating method funnels through here so the bounded-capacity
// invariant holds unconditionally.
func (e *Editor) applyClamped(cs []string, cursor int) {
	if len(cs) > e.capacity {
		cs = cs[:e.capacity]
	}
	e.text = join(cs)
	e.cursor = clamp(cursor, 0, len(cs))
}

func removeSpan(cs []string, start, end int) []string {
	out := make([]string, 0, len(cs)-(end-start))
	out = append(out, cs[:start]...)
	out = append(out, cs[end:]...)
	return out
}

// forwardWordBoundary skips whitespace clusters forward from cursor, then
// returns the index just past the following run of non-whitespace
// clusters (or len(cs) if the cursor was already in trailing whitespace).
// This is a whitespace-delimited "WORD" motion, not Unicode word-category
// segmentation: a punctuation run like "-m" moves as a single unit with
// its neighboring word, matching familiar shell-binding ergonomics rather
// than strict UAX #29 word boundaries.
func forwardWordBoundary(cs []string, cursor int) int {
	n := len(cs)
	i := cursor
	for i < n && isWhitespace(cs[i]) {
		i++
	}
	for i < n && !isWhitespace(cs[i]) {
		i++
	}
	return i
}

// backwardWordBoundary is forwardWordBoundary's mirror image.
func backwardWordBoundary(cs []string, cursor int) int {
	i := cursor
	for i > 0 && isWhitespace(cs[i-1]) {
		i--
	}
	for i > 0 && !isWhitespace(cs[i-1]) {
		i--
	}
	return i
}

func isWhitespace(cluster string) bool {
	return strings.TrimSpace(cluster) == ""
}

func join(cs []string) string {
	return strings.Join(cs, "")
}

// clusters splits s into its grapheme clusters.
func clusters(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	seg := graphemes.FromString(s)
	for seg.Next() {
		out = append(out, seg.Value())
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
