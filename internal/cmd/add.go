package cmd

import (
	"context"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blueman82/rcl/internal/rlog"
	"github.com/blueman82/rcl/internal/shelltok"
)

var addOpts struct {
	exitCode int
	dir      string
	sid      string
}

var addCmd = &cobra.Command{
	Use:     "add <cmd...>",
	Short:   "Record one shell command execution",
	GroupID: groupCore,
	Args:    cobra.ArbitraryArgs,
	RunE:    runAdd,
}

func init() {
	addCmd.Flags().IntVar(&addOpts.exitCode, "exit", 0, "exit code of the command")
	addCmd.Flags().StringVar(&addOpts.dir, "dir", "", "working directory the command ran in")
	addCmd.Flags().StringVar(&addOpts.sid, "sid", "", "shell session ID")
}

func runAdd(cmd *cobra.Command, args []string) error {
	line := strings.TrimSpace(strings.Join(args, " "))
	if line == "" {
		return nil
	}
	if addOpts.exitCode == 127 && !arg0Executable(line) {
		// Input-validation policy (§7): a 127 whose arg0 genuinely isn't on
		// PATH is shell noise ("comand-not-fund"), not history worth recall.
		return nil
	}

	ctx := context.Background()
	st, _, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Add(ctx, line, addOpts.sid, addOpts.dir, addOpts.exitCode); err != nil {
		rlog.Error("add failed", "cmd", line, "error", err)
		return err
	}
	return nil
}

// arg0Executable reports whether the first token of line resolves via
// exec.LookPath, used to distinguish a real command-not-found from other
// causes of a 127 exit.
func arg0Executable(line string) bool {
	arg0 := shelltok.FirstToken(line)
	if arg0 == "" {
		return false
	}
	_, err := exec.LookPath(arg0)
	return err == nil
}
