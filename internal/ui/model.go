// Package ui implements the interactive search screen: a Bubble Tea model
// wiring the Input Editor and Matcher together with a selection cursor,
// viewport, and a small Normal/ConfirmDelete state machine.
package ui

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/blueman82/rcl/internal/editor"
	"github.com/blueman82/rcl/internal/match"
	"github.com/blueman82/rcl/internal/rank"
	"github.com/blueman82/rcl/internal/rlog"
	"github.com/blueman82/rcl/internal/store"
)

// Mode is the UI Driver's small state machine (§4.5).
type Mode int

const (
	Normal Mode = iota
	ConfirmDelete
)

// RedrawMode gates how much of the screen Update determined needs
// recomputing: a full repaint, just the two rows bracketing a selection
// change, or just the prompt line for in-line cursor motion.
type RedrawMode int

const (
	RedrawFull RedrawMode = iota
	RedrawRowLocal
	RedrawPromptOnly
)

const (
	inputCapacity = 1024
	promptLabel   = "> "
	reservedLines = 3 // lines not given to result rows; View draws the prompt and footer in two of them
	viewPadX      = 1
	resultLimit   = 200
)

// Options configures a new Model.
type Options struct {
	SessionID    string
	Dir          string
	InitialQuery string
	Bottom       bool
	Light        bool
	Rank         bool
	Anywhere     bool
	WeightPreset string
}

// Model is the Bubble Tea model for the search screen.
type Model struct {
	st *store.Store
	db *sql.DB

	sessionID string
	dir       string
	weights   rank.Weights

	ed *editor.Editor

	rankOrder bool
	anywhere  bool
	bottom    bool

	matches   []match.Result
	selection int
	offset    int

	mode   Mode
	redraw RedrawMode
	pal    palette

	width, height int

	cachedRows []string

	result      string
	sentinel    byte
	accepted    bool
	quitting    bool
	err         error
}

// New constructs a Model, performing the initial Ranker rebuild and Matcher
// query synchronously (§4.2's "initial entry to search mode" trigger).
func New(ctx context.Context, st *store.Store, opts Options) (Model, error) {
	weights := rank.Resolve(opts.WeightPreset)
	if _, err := rank.Rebuild(ctx, st.DB(), opts.Dir, opts.Anywhere, weights, time.Now()); err != nil {
		return Model{}, fmt.Errorf("ui: initial rank rebuild: %w", err)
	}

	pal := darkPalette()
	if opts.Light {
		pal = lightPalette()
	}

	m := Model{
		st:        st,
		db:        st.DB(),
		sessionID: opts.SessionID,
		dir:       opts.Dir,
		weights:   weights,
		ed:        editor.New(inputCapacity),
		rankOrder: opts.Rank,
		anywhere:  opts.Anywhere,
		bottom:    opts.Bottom,
		selection: -1,
		pal:       pal,
		width:     80,
		height:    24,
	}

	for _, c := range opts.InitialQuery {
		m.ed.Insert(c)
	}

	m.refreshMatches()
	m.rebuildRows()
	return m, nil
}

func (m Model) Init() tea.Cmd { return nil }

// Result is the accepted command, or "" if the user cancelled.
func (m Model) Result() string { return m.result }

// Sentinel is the trailing byte communicating run-immediately ('\n') vs
// edit-before-running ('\t') to the shell wrapper. Only meaningful when
// Accepted is true.
func (m Model) Sentinel() byte { return m.sentinel }

// Accepted reports whether the user accepted a command (as opposed to
// cancelling with Ctrl-C).
func (m Model) Accepted() bool { return m.accepted }

// ModeState, RedrawState, Selection, Matches, and Err expose just enough state for tests
// to assert on Update's classification of a keystroke.
func (m Model) ModeState() Mode           { return m.mode }
func (m Model) RedrawState() RedrawMode   { return m.redraw }
func (m Model) Selection() int            { return m.selection }
func (m Model) Matches() []match.Result   { return m.matches }
func (m Model) Err() error                { return m.err }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		m.rebuildRows()
		m.redraw = RedrawFull
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ConfirmDelete {
		return m.handleConfirmDeleteKey(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.ed = editor.New(inputCapacity)
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		return m.accept('\n')

	case tea.KeyTab:
		return m.accept('\t')

	case tea.KeyBackspace:
		m.ed.Delete(editor.Backward)
		return m.afterTextChange()

	case tea.KeyDelete:
		m.ed.Delete(editor.Forward)
		return m.afterTextChange()

	case tea.KeyLeft:
		m.ed.Move(editor.Backward)
		m.redraw = RedrawPromptOnly
		return m, nil

	case tea.KeyRight:
		m.ed.Move(editor.Forward)
		m.redraw = RedrawPromptOnly
		return m, nil

	case tea.KeyHome:
		m.ed.Move(editor.BOL)
		m.redraw = RedrawPromptOnly
		return m, nil

	case tea.KeyEnd:
		m.ed.Move(editor.EOL)
		m.redraw = RedrawPromptOnly
		return m, nil

	case tea.KeyUp:
		m.moveSelection(-1)
		return m, nil

	case tea.KeyDown:
		m.moveSelection(1)
		return m, nil

	case tea.KeyF1:
		m.rankOrder = !m.rankOrder
		m.refreshMatches()
		m.rebuildRows()
		m.redraw = RedrawFull
		return m, nil

	case tea.KeyF2:
		if len(m.matches) > 0 {
			m.mode = ConfirmDelete
			m.redraw = RedrawFull
		}
		return m, nil

	case tea.KeyF3:
		m.anywhere = !m.anywhere
		m.rebuildAndRefresh()
		m.redraw = RedrawFull
		return m, nil

	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.ed.Insert(r)
		}
		return m.afterTextChange()
	}

	return m, nil
}

func (m Model) handleConfirmDeleteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if cmd := m.selectedCmd(); cmd != "" {
			if err := m.st.Delete(context.Background(), cmd); err != nil {
				m.err = err
				rlog.Warn("ui: delete failed", "cmd", cmd, "error", err)
			}
			m.refreshMatches()
			m.rebuildRows()
		}
		m.mode = Normal
		m.redraw = RedrawFull
	case "n", "N":
		m.mode = Normal
		m.redraw = RedrawFull
	}
	return m, nil
}

// afterTextChange is shared by every editor mutation that changes the input
// text: refresh matches against the new pattern, reset selection/offset,
// force a full repaint.
func (m Model) afterTextChange() (tea.Model, tea.Cmd) {
	m.selection = -1
	m.refreshMatches()
	m.offset = 0
	m.rebuildRows()
	m.redraw = RedrawFull
	return m, nil
}

func (m Model) accept(sentinel byte) (tea.Model, tea.Cmd) {
	cmd := m.selectedCmd()
	if cmd == "" && strings.TrimSpace(m.ed.Command()) != "" {
		cmd = m.ed.Command()
	}
	if cmd != "" {
		if err := m.st.RecordSelection(context.Background(), cmd, m.sessionID, m.dir); err != nil {
			rlog.Warn("ui: record selection failed", "cmd", cmd, "error", err)
		}
	}

	m.quitting = true
	if cmd == "" {
		return m, tea.Quit
	}
	m.result = cmd
	m.sentinel = sentinel
	m.accepted = true
	return m, tea.Quit
}

func (m Model) selectedCmd() string {
	if m.selection >= 0 && m.selection < len(m.matches) {
		return m.matches[m.selection].Cmd
	}
	return ""
}

// moveSelection adjusts the selection index by delta (sign-flipped under
// bottom-anchored layout) and keeps the viewport offset following it.
// Classified as row-local per §4.5 regardless of whether the offset itself
// had to move.
func (m *Model) moveSelection(delta int) {
	if len(m.matches) == 0 {
		return
	}
	if m.bottom {
		delta = -delta
	}
	next := clampInt(m.selection+delta, 0, len(m.matches)-1)
	if next == m.selection {
		return
	}

	old := m.selection
	oldOffset := m.offset
	m.selection = next

	h := m.listHeight()
	if m.selection >= m.offset+h {
		m.offset++
	}
	if m.selection < m.offset {
		m.offset = m.selection
	}

	if m.offset != oldOffset {
		m.rebuildRows()
	} else {
		m.touchRow(old - m.offset)
		m.touchRow(m.selection - m.offset)
	}
	m.redraw = RedrawRowLocal
}

func (m *Model) clampOffset() {
	h := m.listHeight()
	if m.selection < m.offset {
		m.offset = m.selection
	}
	if m.selection >= m.offset+h {
		m.offset = m.selection - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) refreshMatches() {
	results, err := match.Search(context.Background(), m.db, m.ed.Command(), resultLimit, m.rankOrder)
	if err != nil {
		m.err = err
		rlog.Warn("ui: search failed", "error", err)
		m.matches = nil
	} else {
		m.err = nil
		m.matches = results
	}

	if len(m.matches) == 0 {
		m.selection = -1
	} else if m.selection < 0 || m.selection >= len(m.matches) {
		m.selection = 0
	}
	m.offset = 0
}

func (m *Model) rebuildAndRefresh() {
	if _, err := rank.Rebuild(context.Background(), m.db, m.dir, m.anywhere, m.weights, time.Now()); err != nil {
		m.err = err
		rlog.Warn("ui: rank rebuild failed", "error", err)
	}
	m.refreshMatches()
	m.rebuildRows()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
