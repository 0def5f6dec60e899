package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/blueman82/rcl/internal/rlog"
	"github.com/blueman82/rcl/internal/ui"
)

var searchOpts struct {
	dir    string
	sid    string
	bottom bool
	light  bool
}

var searchCmd = &cobra.Command{
	Use:     "search <cmd...>",
	Short:   "Open the ranked history search screen",
	GroupID: groupCore,
	Args:    cobra.ArbitraryArgs,
	RunE:    runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchOpts.dir, "dir", "", "current working directory")
	searchCmd.Flags().StringVar(&searchOpts.sid, "sid", "", "shell session ID")
	searchCmd.Flags().BoolVar(&searchOpts.bottom, "bottom", false, "draw the prompt and results from the bottom of the screen")
	searchCmd.Flags().BoolVar(&searchOpts.light, "light", false, "use a light-background palette")
}

func runSearch(cmd *cobra.Command, args []string) error {
	// Terminal-fatal checks (§7): abort before touching any terminal state.
	if err := checkTTY(); err != nil {
		rlog.Error("search: tty unavailable", "error", err)
		return err
	}
	if err := checkTERM(); err != nil {
		rlog.Error("search: unsupported terminal", "error", err)
		return err
	}

	ctx := context.Background()
	st, cfg, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := ui.Options{
		SessionID:    searchOpts.sid,
		Dir:          searchOpts.dir,
		InitialQuery: strings.TrimSpace(strings.Join(args, " ")),
		Bottom:       searchOpts.bottom || cfg.UI.Bottom,
		Light:        searchOpts.light || cfg.UI.Light,
		WeightPreset: cfg.Weights,
		Rank:         true,
		Anywhere:     true,
	}

	model, err := ui.New(ctx, st, opts)
	if err != nil {
		rlog.Error("search: build model", "error", err)
		return err
	}

	// The TUI talks to /dev/tty directly, same as the teacher's clai-picker,
	// whatever stdin/stdout are redirected to; the accepted command is then
	// injected into that same terminal's input queue.
	tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
	if err != nil {
		rlog.Error("search: open /dev/tty", "error", err)
		return fmt.Errorf("cmd: open /dev/tty: %w", err)
	}
	defer tty.Close()

	lipgloss.SetColorProfile(termenv.NewOutput(tty).ColorProfile())

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithInput(tty),
		tea.WithOutput(tty),
	)

	finalModel, err := p.Run()
	if err != nil {
		rlog.Error("search: tui run", "error", err)
		return fmt.Errorf("cmd: tui: %w", err)
	}

	m, ok := finalModel.(ui.Model)
	if !ok || !m.Accepted() {
		return nil
	}

	result := m.Result() + string(m.Sentinel())
	if err := injectTTY(tty, result); err != nil {
		rlog.Warn("search: tty injection failed", "error", err)
	}
	return nil
}
