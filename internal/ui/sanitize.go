package ui

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// ansiRE strips the handful of ANSI escape shapes a recorded shell command
// could plausibly contain (a command that itself printed color codes, or
// one pasted from a colorized terminal) so it renders as plain text in the
// result list.
var ansiRE = regexp.MustCompile(`\x1b(?:\[[0-9;]*[A-Za-z]|\].*?(?:\x1b\\|\x07))`)

// StripANSI removes ANSI escape sequences from s.
func StripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

// ValidateUTF8 replaces invalid UTF-8 byte sequences with the replacement
// character, so a malformed recorded command never corrupts the terminal.
func ValidateUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			b.WriteRune(utf8.RuneError)
			i++
		} else {
			b.WriteRune(r)
			i += size
		}
	}
	return b.String()
}

const ellipsis = "…"

// MiddleTruncate truncates s in the middle with an ellipsis if its display
// width exceeds maxWidth. Display-width aware, so wide (CJK, emoji)
// characters are accounted for rather than counted as one column.
func MiddleTruncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < 3 {
		return runewidthTruncate(s, maxWidth)
	}

	remaining := maxWidth - 1
	headWidth := (remaining + 1) / 2
	tailWidth := remaining / 2

	head := runewidthTruncate(s, headWidth)
	tail := runewidthTruncateRight(s, tailWidth)
	return head + ellipsis + tail
}

func runewidthTruncate(s string, maxWidth int) string {
	w := 0
	for i, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > maxWidth {
			return s[:i]
		}
		w += rw
	}
	return s
}

func runewidthTruncateRight(s string, maxWidth int) string {
	runes := []rune(s)
	w := 0
	start := len(runes)
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if w+rw > maxWidth {
			break
		}
		w += rw
		start = i
	}
	return string(runes[start:])
}

func sanitizeForDisplay(s string) string {
	return ValidateUTF8(StripANSI(s))
}
