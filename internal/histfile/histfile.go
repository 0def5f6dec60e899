// Package histfile reads and rewrites the shell history file named by
// $HISTFILE for first-run import and for Store.Delete's history-file
// clean-up. Parsing is deliberately minimal: one command per line, with
// zsh-style "#<10 digits>" timestamp marker lines skipped. Full per-shell
// history format support (bash HISTTIMEFORMAT markers, fish's pseudo-YAML
// format, zsh's extended ": <ts>:<dur>;cmd" format) is an external
// shell-integration concern and out of scope for this engine.
package histfile

import (
	"bufio"
	"os"
	"regexp"
	"strings"

	"github.com/blueman82/rcl/internal/filelock"
)

// zshTimestampMarker matches a bare zsh-style timestamp marker line: "#"
// followed by exactly 10 ASCII digits and nothing else.
var zshTimestampMarker = regexp.MustCompile(`^#[0-9]{10}$`)

// Path returns the history file path from $HISTFILE, or "" if unset.
func Path() string {
	return os.Getenv("HISTFILE")
}

// ReadCommands reads path and returns the surviving command lines: blank
// lines are skipped, zsh timestamp marker lines are skipped, and every
// remaining line is trimmed of leading/trailing whitespace.
//
// A missing file is not an error: it yields an empty slice.
func ReadCommands(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []string
	scanner := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if zshTimestampMarker.MatchString(line) {
			continue
		}
		out = append(out, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveCommand rewrites path, dropping every line whose trimmed content
// equals cmd exactly (preserving timestamp marker lines and ordering of
// the rest). A missing file is a no-op.
func RemoveCommand(path, cmd string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	lines := strings.Split(string(data), "\n")
	trailingNewline := strings.HasSuffix(string(data), "\n")

	kept := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) == cmd {
			continue
		}
		kept = append(kept, line)
	}

	out := strings.Join(kept, "\n")
	if trailingNewline && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}

	return filelock.AtomicWrite(path, []byte(out))
}
