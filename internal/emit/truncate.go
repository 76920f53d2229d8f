package emit

import (
	"strings"
	"unicode/utf8"
)

// Display limits for non-verbose payloads. A payload is cut when it exceeds
// either limit; --verbose bypasses both.
const (
	DefaultMaxLines = 64
	DefaultMaxBytes = 8192
)

// truncate cuts text to the given limits and reports how much was dropped.
// The line limit applies first, then the byte limit; a byte cut lands on a
// rune boundary and backs up to the previous line end when a complete line
// precedes it, so truncated output is whole lines except for the
// single-enormous-line case.
func truncate(text string, maxLines, maxBytes int) (kept string, omittedLines, omittedBytes int) {
	if text == "" {
		return "", 0, 0
	}
	if countLines(text) <= maxLines && len(text) <= maxBytes {
		return text, 0, 0
	}

	lines := strings.Split(text, "\n")
	if len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	out := strings.Join(lines, "\n")

	if len(out) > maxBytes {
		cut := maxBytes
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
		if i := strings.LastIndexByte(out, '\n'); i > 0 {
			out = out[:i]
		}
	}

	return out, countLines(text) - countLines(out), len(text) - len(out)
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
