package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blueman82/rcl/internal/config"
	"github.com/blueman82/rcl/internal/histfile"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Short:   "Check rcl's database, history file, and terminal setup",
	GroupID: groupSetup,
	Long: `Run diagnostic checks on your rcl installation.

This command checks:
- Data directory exists
- Database openable
- Shell history file readable
- /dev/tty openable
- $TERM is not "dumb"

Examples:
  rcl doctor`,
	RunE: runDoctor,
}

type checkResult struct {
	name    string
	status  string // "ok", "warn", "error"
	message string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Printf("%srcl doctor%s\n", colorBold, colorReset)
	fmt.Println(strings.Repeat("-", 40))
	fmt.Println()

	results := []checkResult{
		checkDataDir(),
		checkDatabase(),
		checkHistFile(),
		checkTTYResult(),
		checkTERMResult(),
	}

	hasErrors, hasWarnings := false, false
	for _, r := range results {
		var icon string
		switch r.status {
		case "ok":
			icon = colorGreen + "[OK]" + colorReset
		case "warn":
			icon = colorYellow + "[WARN]" + colorReset
			hasWarnings = true
		case "error":
			icon = colorRed + "[ERROR]" + colorReset
			hasErrors = true
		}
		fmt.Printf("  %s %s\n", icon, r.name)
		if r.message != "" {
			fmt.Printf("       %s%s%s\n", colorDim, r.message, colorReset)
		}
	}

	fmt.Println()
	switch {
	case hasErrors:
		fmt.Printf("%sSome checks failed.%s\n", colorRed, colorReset)
		return fmt.Errorf("doctor found errors")
	case hasWarnings:
		fmt.Printf("%sAll critical checks passed, but there are warnings.%s\n", colorYellow, colorReset)
	default:
		fmt.Printf("%sAll checks passed!%s\n", colorGreen, colorReset)
	}
	return nil
}

func checkDataDir() checkResult {
	paths := config.DefaultPaths()
	if _, err := os.Stat(paths.BaseDir); os.IsNotExist(err) {
		return checkResult{name: "Data directory", status: "warn", message: fmt.Sprintf("missing: %s (created on first use)", paths.BaseDir)}
	} else if err != nil {
		return checkResult{name: "Data directory", status: "error", message: err.Error()}
	}
	return checkResult{name: "Data directory", status: "ok", message: paths.BaseDir}
}

func checkDatabase() checkResult {
	paths := config.DefaultPaths()
	st, _, err := openStore(context.Background())
	if err != nil {
		return checkResult{name: "Database", status: "error", message: err.Error()}
	}
	defer st.Close()
	return checkResult{name: "Database", status: "ok", message: paths.DatabaseFile()}
}

func checkHistFile() checkResult {
	path := histfile.Path()
	if path == "" {
		return checkResult{name: "History file", status: "warn", message: "$HISTFILE is unset, no import/delete sync available"}
	}
	if _, err := os.Stat(path); err != nil {
		return checkResult{name: "History file", status: "warn", message: fmt.Sprintf("%s not readable: %v", path, err)}
	}
	return checkResult{name: "History file", status: "ok", message: path}
}

func checkTTYResult() checkResult {
	if err := checkTTY(); err != nil {
		return checkResult{name: "/dev/tty", status: "error", message: err.Error()}
	}
	return checkResult{name: "/dev/tty", status: "ok"}
}

func checkTERMResult() checkResult {
	if err := checkTERM(); err != nil {
		return checkResult{name: "$TERM", status: "error", message: err.Error()}
	}
	return checkResult{name: "$TERM", status: "ok", message: os.Getenv("TERM")}
}
