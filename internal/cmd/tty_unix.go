//go:build !windows

package cmd

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// checkTTY verifies that /dev/tty is openable.
func checkTTY() error {
	f, err := os.Open("/dev/tty")
	if err != nil {
		return fmt.Errorf("no TTY available: %w", err)
	}
	f.Close()
	return nil
}

// checkTERM verifies that the TERM environment variable is not "dumb".
func checkTERM() error {
	if os.Getenv("TERM") == "dumb" {
		return fmt.Errorf("TERM=dumb is not supported")
	}
	return nil
}

// checkTermWidth verifies that /dev/tty reports a usable column count.
func checkTermWidth() error {
	f, err := os.Open("/dev/tty")
	if err != nil {
		return fmt.Errorf("cannot check terminal width: %w", err)
	}
	defer f.Close()

	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return fmt.Errorf("cannot get terminal size: %w", err)
	}
	if ws.Col < 14 {
		return fmt.Errorf("terminal too narrow (%d columns, need at least 14)", ws.Col)
	}
	return nil
}

// injectTTY pushes s onto tty's input queue one byte at a time via TIOCSTI,
// so the controlling shell reads it back as if the user had typed it. Stops
// at the first ioctl failure (e.g. a kernel with TIOCSTI locked down by
// dev.tty.legacy_tiocsti=0), mirroring the original implementation's
// break-on-error loop.
func injectTTY(tty *os.File, s string) error {
	fd := int(tty.Fd())
	for _, b := range []byte(s) {
		if err := unix.IoctlSetPointerInt(fd, unix.TIOCSTI, int(b)); err != nil {
			return fmt.Errorf("inject byte %q: %w", b, err)
		}
	}
	return nil
}
