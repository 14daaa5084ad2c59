package parser

import (
	"strings"

	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/internal/token"
)

// ErrorOpts is a struct that holds a variety of error data.
// All fields are optional, although one of `Cause` or `Message`
// are recommended. If `Cause` is set, `Message` will be ignored.
type ErrorOpts struct {
	Code          errors.ErrorCode
	Message       string
	Cause         error
	File          string
	StartPosition token.Position
	EndPosition   token.Position
	SourceCode    string
}

// NewSyntaxError returns a LocatedSyntaxError populated with the given
// error data. The message carries the position as "(line:column)".
func NewSyntaxError(opts ErrorOpts) *errors.LocatedSyntaxError {
	message := opts.Message
	if opts.Cause != nil {
		message = capitalize(opts.Cause.Error())
	}
	code := opts.Code
	if code == "" {
		code = errors.E1003
	}
	loc := token.LocFrom(opts.StartPosition, opts.EndPosition)
	err := errors.NewSyntaxError(code, loc, "%s (%s)", message, loc.Start)
	err.SourceLine = opts.SourceCode
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func lexerErrorCode(err error) errors.ErrorCode {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "unterminated"):
		return errors.E1002
	case strings.Contains(msg, "escape"):
		return errors.E1010
	case strings.Contains(msg, "number"):
		return errors.E1008
	}
	return errors.E1003
}

func tokenTypeDescription(t token.Type) string {
	switch t {
	case token.EOF:
		return "end of file"
	case token.IDENT:
		return "identifier"
	case token.STRING:
		return "string"
	default:
		return string(t)
	}
}
