// Package errors defines the diagnostics raised while transforming a file.
//
// Every error type embeds Diagnostic, which carries the source location,
// the rendered code frame and the annotation state. Annotate turns any
// error into an annotated diagnostic exactly once.
package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/deepnoodle-ai/morph/internal/token"
)

// Diagnosable is implemented by every error type in this package.
type Diagnosable interface {
	error
	Diag() *Diagnostic
}

// Diagnostic holds the data shared by all diagnostics.
type Diagnostic struct {
	Code ErrorCode

	// Message is the bare message, without filename or code frame.
	Message string

	// Loc is the source span the error refers to, if known.
	Loc *token.Loc

	// Filename is set when the diagnostic is annotated.
	Filename string

	// CodeFrame is the rendered source excerpt, set on annotation when Loc
	// is known.
	CodeFrame string

	// SourceLine is the text of the line Loc starts on.
	SourceLine string

	// Hint is an optional suggestion such as "Did you mean ...?".
	Hint string

	annotated bool
	message   string
}

func (d *Diagnostic) Error() string {
	if d.message != "" {
		return d.message
	}
	return d.Message
}

// Diag returns the diagnostic itself.
func (d *Diagnostic) Diag() *Diagnostic {
	return d
}

// Annotated reports whether the filename and code frame have been applied.
func (d *Diagnostic) Annotated() bool {
	return d.annotated
}

// FriendlyErrorMessage returns the error formatted for terminal display
// without colors.
func (d *Diagnostic) FriendlyErrorMessage() string {
	return NewFormatter(false).Format(d)
}

// UnknownHelperError is returned when a helper name is not in the helper
// whitelist.
type UnknownHelperError struct {
	Diagnostic
	Name string
}

// NewUnknownHelperError returns an UnknownHelperError for name. Known names
// are used to suggest a correction.
func NewUnknownHelperError(name string, known []string) *UnknownHelperError {
	e := &UnknownHelperError{Name: name}
	e.Code = E2001
	e.Message = fmt.Sprintf("Unknown helper %s", name)
	e.Hint = hint(name, known)
	return e
}

// UnknownModuleFormatterError is returned when a module formatter type
// cannot be resolved.
type UnknownModuleFormatterError struct {
	Diagnostic
	Name string
}

func NewUnknownModuleFormatterError(name string, known []string) *UnknownModuleFormatterError {
	e := &UnknownModuleFormatterError{Name: name}
	e.Code = E2002
	e.Message = fmt.Sprintf("Unknown module formatter type %q", name)
	e.Hint = hint(name, known)
	return e
}

// UnknownPluginError is returned when a plugin name is not registered.
type UnknownPluginError struct {
	Diagnostic
	Name string
}

func NewUnknownPluginError(name string, known []string) *UnknownPluginError {
	e := &UnknownPluginError{Name: name}
	e.Code = E2003
	e.Message = fmt.Sprintf("Unknown plugin %q", name)
	e.Hint = hint(name, known)
	return e
}

// PluginError reports an invalid plugin configuration: a name collision, an
// unsupported API version or an invalid position.
type PluginError struct {
	Diagnostic
	Plugin string
}

func NewPluginError(code ErrorCode, plugin string, format string, args ...any) *PluginError {
	e := &PluginError{Plugin: plugin}
	e.Code = code
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// OutputError reports a failure producing output: an unreadable input
// source map or a code generation failure.
type OutputError struct {
	Diagnostic
}

func NewOutputError(code ErrorCode, format string, args ...any) *OutputError {
	e := &OutputError{}
	e.Code = code
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// TransformAbort wraps an error raised by a pass handler or hook. The
// original error is available through Unwrap.
type TransformAbort struct {
	Diagnostic
	Err error
}

// NewTransformAbort wraps err. If err wraps a located diagnostic, its
// location is carried over.
func NewTransformAbort(err error) *TransformAbort {
	e := &TransformAbort{Err: err}
	e.Code = E2007
	e.Message = err.Error()
	var d Diagnosable
	if stderrors.As(err, &d) {
		e.Loc = d.Diag().Loc
	}
	return e
}

func (e *TransformAbort) Unwrap() error {
	return e.Err
}

// LocatedSyntaxError is an error at an exact source location, raised by the
// parser or built for a node by a pass.
type LocatedSyntaxError struct {
	Diagnostic
}

// NewSyntaxError returns a LocatedSyntaxError. loc may be nil when the
// location could not be determined.
func NewSyntaxError(code ErrorCode, loc *token.Loc, format string, args ...any) *LocatedSyntaxError {
	e := &LocatedSyntaxError{}
	e.Code = code
	e.Loc = loc
	e.Message = fmt.Sprintf(format, args...)
	return e
}

// Is reports whether err is or wraps a diagnostic with the given code.
func Is(err error, code ErrorCode) bool {
	for err != nil {
		var d Diagnosable
		if stderrors.As(err, &d) && d.Diag().Code == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}
