package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/wonton/color"
)

// Formatter renders diagnostics for a terminal:
//
//	syntax error[E1001]: Unexpected token
//	  --> input.js:2:9
//	  > 2 | var b = ;
//	      |         ^
//	  = hint: Did you mean 'x'?
type Formatter struct {
	// UseColor enables ANSI color codes in output.
	UseColor bool
}

// NewFormatter creates a new error formatter.
func NewFormatter(useColor bool) *Formatter {
	return &Formatter{UseColor: useColor}
}

type paint func(string) string

var (
	paintKind     paint = func(s string) string { return color.BrightRed.Apply(s) }
	paintCode     paint = func(s string) string { return color.BrightBlack.Apply(s) }
	paintLocation paint = func(s string) string { return color.Cyan.Apply(s) }
	paintCaret    paint = func(s string) string { return color.BrightRed.Apply(s) }
	paintHint     paint = func(s string) string { return color.BrightYellow.Apply(s) }
)

func (f *Formatter) style(p paint, s string) string {
	if !f.UseColor {
		return s
	}
	return p(s)
}

// Format renders one diagnostic.
func (f *Formatter) Format(d *Diagnostic) string {
	var b strings.Builder

	b.WriteString(f.style(paintKind, d.Code.Kind()))
	if d.Code != "" {
		b.WriteString(f.style(paintCode, "["+string(d.Code)+"]"))
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	b.WriteString("\n")

	if loc := d.position(); loc != "" {
		b.WriteString("  ")
		b.WriteString(f.style(paintLocation, "--> "+loc))
		b.WriteString("\n")
	}

	switch {
	case d.CodeFrame != "":
		for _, line := range strings.Split(d.CodeFrame, "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	case d.SourceLine != "" && d.Loc != nil:
		// The parser knows the offending line but the diagnostic was never
		// annotated with the full source.
		num := fmt.Sprint(d.Loc.Start.Line)
		fmt.Fprintf(&b, "  > %s | %s\n", num, d.SourceLine)
		b.WriteString("  " + strings.Repeat(" ", len(num)+3) + "| " + strings.Repeat(" ", d.Loc.Start.Column))
		b.WriteString(f.style(paintCaret, "^"))
		b.WriteString("\n")
	}

	if d.Hint != "" {
		b.WriteString("  = ")
		b.WriteString(f.style(paintHint, "hint: "))
		b.WriteString(d.Hint)
		b.WriteString("\n")
	}
	return b.String()
}

// FormatError renders err. Errors that are not diagnostics are rendered
// as a bare message.
func (f *Formatter) FormatError(err error) string {
	var d Diagnosable
	if stderrors.As(err, &d) {
		return f.Format(d.Diag())
	}
	return f.style(paintKind, "error") + ": " + err.Error() + "\n"
}

// FormatAll renders each error, separated by blank lines, followed by a
// count when there is more than one.
func (f *Formatter) FormatAll(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			parts = append(parts, f.FormatError(err))
		}
	}
	out := strings.Join(parts, "\n")
	if len(parts) > 1 {
		out += "\n" + f.style(paintKind, fmt.Sprintf("found %d errors", len(parts))) + "\n"
	}
	return out
}

// position returns "file:line:col", "line:col" or the bare filename.
func (d *Diagnostic) position() string {
	var line string
	if d.Loc != nil {
		line = fmt.Sprintf("%d:%d", d.Loc.Start.Line, d.Loc.Start.Column+1)
	}
	switch {
	case d.Filename != "" && line != "":
		return d.Filename + ":" + line
	case d.Filename != "":
		return d.Filename
	}
	return line
}
