package cmd

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

//go:embed shell/zsh/rcl.zsh
//go:embed shell/bash/rcl.bash
//go:embed shell/fish/rcl.fish
var shellScripts embed.FS

var initOpts struct {
	bottom bool
	light  bool
}

var initCmd = &cobra.Command{
	Use:     "init <shell>",
	Short:   "Output shell integration script",
	GroupID: groupSetup,
	Long: `Output the shell integration script for your shell.

Add this to your shell configuration file:

  # For Zsh (~/.zshrc):
  eval "$(rcl init zsh)"

  # For Bash (~/.bashrc or ~/.bash_profile on macOS):
  eval "$(rcl init bash)"

  # For Fish (~/.config/fish/config.fish):
  rcl init fish | source`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"zsh", "bash", "fish"},
	RunE:      runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initOpts.bottom, "bottom", false, "anchor the search screen to the bottom of the terminal")
	initCmd.Flags().BoolVar(&initOpts.light, "light", false, "use a light-background palette")
}

func runInit(cmd *cobra.Command, args []string) error {
	shell := args[0]

	var filename string
	switch shell {
	case "zsh":
		filename = "shell/zsh/rcl.zsh"
	case "bash":
		filename = "shell/bash/rcl.bash"
	case "fish":
		filename = "shell/fish/rcl.fish"
	default:
		return fmt.Errorf("unsupported shell: %s (supported: zsh, bash, fish)", shell)
	}

	content, err := shellScripts.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read shell script: %w", err)
	}

	sessionID := os.Getenv("RCL_SESSION_ID")
	if sessionID == "" {
		sessionID = generateSessionID()
	}

	script := strings.ReplaceAll(string(content), "{{RCL_SESSION_ID}}", sessionID)

	// The --bottom/--light flag tokens are literal in the embedded scripts;
	// strip them (plus the leading space) when the caller didn't ask for
	// the corresponding behavior.
	if !initOpts.bottom {
		script = strings.ReplaceAll(script, " --bottom", "")
	}
	if !initOpts.light {
		script = strings.ReplaceAll(script, " --light", "")
	}

	fmt.Print(script)
	return nil
}

// generateSessionID returns a UUID-v4-shaped ID derived from host/process
// identity rather than crypto/rand, so shell startup never blocks on
// entropy availability.
func generateSessionID() string {
	hostname, _ := os.Hostname()
	seed := strings.Join([]string{
		hostname,
		fmt.Sprintf("%d", time.Now().UnixNano()),
		fmt.Sprintf("%d", os.Getpid()),
		fmt.Sprintf("%d", os.Getppid()),
	}, ":")

	sum := sha256.Sum256([]byte(seed))
	id := make([]byte, 16)
	copy(id, sum[:16])
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80

	hexID := hex.EncodeToString(id)
	return fmt.Sprintf("%s-%s-%s-%s-%s",
		hexID[0:8], hexID[8:12], hexID[12:16], hexID[16:20], hexID[20:32])
}
