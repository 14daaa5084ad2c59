// Package codeframe renders a source excerpt with line numbers and a caret
// pointing at a location.
package codeframe

import (
	"fmt"
	"regexp"
	"strings"
)

var newline = regexp.MustCompile("\r\n|[\n\r\u2028\u2029]")

// Options controls frame rendering.
type Options struct {
	// HighlightCode enables syntax highlighting when the terminal supports
	// color.
	HighlightCode bool
}

// Render renders the lines around lineNumber (1-based). colNumber is 1-based;
// zero omits the caret. When both are zero the whole input is rendered.
func Render(rawLines string, lineNumber, colNumber int, opts Options) string {
	colNumber = max(colNumber, 0)

	highlighted := opts.HighlightCode && Supported()
	if highlighted {
		rawLines = Highlight(rawLines)
	}

	lines := newline.Split(rawLines, -1)
	start := max(lineNumber-3, 0)
	end := min(len(lines), lineNumber+3)
	if lineNumber == 0 && colNumber == 0 {
		start = 0
		end = len(lines)
	}
	if start > end {
		start = end
	}

	width := len(fmt.Sprint(end))
	var b strings.Builder
	for i, line := range lines[start:end] {
		number := start + i + 1
		before := "  "
		if number == lineNumber {
			before = "> "
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s%*d | %s", before, width, number, line)
		if number == lineNumber && colNumber > 0 {
			fmt.Fprintf(&b, "\n  %s | %s^", strings.Repeat(" ", width), strings.Repeat(" ", colNumber-1))
		}
	}
	if highlighted {
		return reset + b.String() + reset
	}
	return b.String()
}
