package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/blueman82/rcl/internal/match"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	rows := m.cachedRows
	if m.bottom {
		rows = bottomAlignLines(reverseLines(rows), m.listHeight())
	}
	list := strings.Join(rows, "\n")

	var b strings.Builder
	if m.bottom {
		b.WriteString(list)
		b.WriteString("\n")
		b.WriteString(m.viewFooter())
		b.WriteString("\n")
		b.WriteString(m.viewPrompt())
	} else {
		b.WriteString(m.viewPrompt())
		b.WriteString("\n")
		b.WriteString(list)
		b.WriteString("\n")
		b.WriteString(m.viewFooter())
	}
	return b.String()
}

func (m Model) viewPrompt() string {
	cs := m.ed.Clusters()
	cursor := m.ed.Cursor()

	var b strings.Builder
	b.WriteString(m.pal.prompt.Render(promptLabel))
	for i, c := range cs {
		if i == cursor {
			b.WriteString(m.pal.cursor.Render(c))
		} else {
			b.WriteString(m.pal.prompt.Render(c))
		}
	}
	if cursor == len(cs) {
		b.WriteString(m.pal.cursor.Render(" "))
	}
	return b.String()
}

func (m Model) viewFooter() string {
	if m.mode == ConfirmDelete {
		return m.pal.danger.Render(fmt.Sprintf("Delete %q? (y/n)", m.selectedCmd()))
	}

	rankLabel := "recency"
	if m.rankOrder {
		rankLabel = "rank"
	}
	dirLabel := "this dir"
	if m.anywhere {
		dirLabel = "any dir"
	}
	hint := fmt.Sprintf(
		"F1:order=%s  F2:delete  F3:scope=%s  ↑↓ select  Enter run  Tab edit  Ctrl-C quit",
		rankLabel, dirLabel,
	)
	if m.err != nil {
		hint = m.pal.danger.Render("search error, showing no results") + "  " + hint
	}
	return m.pal.dim.Render(hint)
}

// rebuildRows recomputes every visible row from scratch: used after any
// keystroke classified as a full repaint.
func (m *Model) rebuildRows() {
	h := m.listHeight()
	n := len(m.matches) - m.offset
	if n > h {
		n = h
	}
	if n < 0 {
		n = 0
	}
	rows := make([]string, n)
	for i := 0; i < n; i++ {
		rows[i] = m.renderRow(m.offset + i)
	}
	m.cachedRows = rows
}

// touchRow re-renders a single visible row (by offset from the top of the
// viewport), used for row-local repaints.
func (m *Model) touchRow(visibleIdx int) {
	if visibleIdx < 0 || visibleIdx >= len(m.cachedRows) {
		return
	}
	m.cachedRows[visibleIdx] = m.renderRow(m.offset + visibleIdx)
}

func (m Model) renderRow(i int) string {
	r := m.matches[i]

	base, hl, prefix := m.pal.normal, m.pal.match, "  "
	if i == m.selection {
		base, hl, prefix = m.pal.selected, m.pal.matchSelected, "> "
	}

	plain := sanitizeForDisplay(r.Cmd)
	maxWidth := m.contentWidth() - lipgloss.Width(prefix)
	if maxWidth < 0 {
		maxWidth = 0
	}
	plain = MiddleTruncate(plain, maxWidth)

	bounds := match.FindBounds(plain, m.ed.Command())
	return base.Render(prefix) + renderHighlighted(plain, bounds, base, hl)
}

func renderHighlighted(s string, bounds []match.Bound, base, hl lipgloss.Style) string {
	if len(bounds) == 0 {
		return base.Render(s)
	}
	var b strings.Builder
	pos := 0
	for _, bd := range bounds {
		if bd.Start > pos {
			b.WriteString(base.Render(s[pos:bd.Start]))
		}
		b.WriteString(hl.Render(s[bd.Start:bd.End]))
		pos = bd.End
	}
	if pos < len(s) {
		b.WriteString(base.Render(s[pos:]))
	}
	return b.String()
}

func (m Model) contentWidth() int {
	w := m.width - 2*viewPadX
	if w < 10 {
		w = 10
	}
	return w
}

func (m Model) listHeight() int {
	h := m.height - reservedLines
	if h < 1 {
		h = 1
	}
	return h
}

func reverseLines(lines []string) []string {
	out := make([]string, len(lines))
	copy(out, lines)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func bottomAlignLines(lines []string, maxItems int) []string {
	pad := maxItems - len(lines)
	if pad <= 0 {
		return lines
	}
	return append(make([]string, pad), lines...)
}
