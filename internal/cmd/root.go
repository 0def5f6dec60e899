// Package cmd wires rcl's cobra command tree: add, search, init, doctor,
// and version, plus the shared store/config bootstrap they all need.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blueman82/rcl/internal/config"
	"github.com/blueman82/rcl/internal/histfile"
	"github.com/blueman82/rcl/internal/rlog"
	"github.com/blueman82/rcl/internal/store"
)

// Command group IDs, mirroring the teacher's core/setup split.
const (
	groupCore  = "core"
	groupSetup = "setup"
)

const selfName = "rcl"

var rootCmd = &cobra.Command{
	Use:   "rcl",
	Short: "recall your shell history, ranked by how you actually use it",
	Long: `rcl - a ranked, substring-matching shell history recall tool

  - type a few characters → jump straight to the command you meant
  - ↑↓ ranking driven by recency, frequency, directory, and past picks`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Core Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup & Configuration:"},
	)

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(searchCmd)

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(doctorCmd)
}

// openStore loads config and opens the Store at the conventional data
// directory, initializing logging first so storage-fatal errors below are
// captured even when stderr is already closed (piped shell invocations).
func openStore(ctx context.Context) (*store.Store, *config.Config, error) {
	paths := config.DefaultPaths()
	if err := paths.EnsureDirs(); err != nil {
		return nil, nil, fmt.Errorf("cmd: create data directory: %w", err)
	}
	rlog.Init(paths.LogFile(), os.Getenv("RCL_DEBUG") != "")

	cfg, err := config.Load(paths.ConfigFile())
	if err != nil {
		rlog.Error("load config", "error", err)
		return nil, nil, fmt.Errorf("cmd: load config: %w", err)
	}

	st, err := store.Open(ctx, paths.DatabaseFile(), histfile.Path(), paths.ImportLockFile(), selfName, cfg.Excludes)
	if err != nil {
		rlog.Error("open store", "error", err)
		return nil, nil, fmt.Errorf("cmd: open store: %w", err)
	}
	return st, cfg, nil
}
