package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/morph/codeframe"
)

// Annotate prefixes the error message with filename and, when the error
// has a location, appends a code frame rendered from code. The diagnostic
// is modified in place and returned. Errors that are not diagnostics are
// wrapped in a TransformAbort first. Annotating an error that wraps an
// annotated diagnostic returns it unchanged.
func Annotate(err error, filename, code string, opts codeframe.Options) error {
	if err == nil {
		return nil
	}
	var inner Diagnosable
	if stderrors.As(err, &inner) && inner.Diag().annotated {
		return err
	}
	d, ok := err.(Diagnosable)
	if !ok {
		d = NewTransformAbort(err)
	}
	diag := d.Diag()
	if diag.annotated {
		return d
	}
	diag.annotated = true
	diag.Filename = filename

	message := fmt.Sprintf("%s: %s", filename, diag.Message)
	if diag.Loc != nil {
		diag.CodeFrame = codeframe.Render(code, diag.Loc.Start.Line, diag.Loc.Start.Column+1, opts)
		diag.SourceLine = sourceLine(code, diag.Loc.Start.Line)
		message += "\n" + diag.CodeFrame
	}
	diag.message = message
	return d
}

func sourceLine(code string, line int) string {
	lines := strings.Split(code, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return strings.TrimSuffix(lines[line-1], "\r")
}
