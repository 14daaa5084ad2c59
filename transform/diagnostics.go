package transform

import (
	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/codeframe"
	"github.com/deepnoodle-ai/morph/errors"
)

// BuildCodeFrameError returns an error located at node. Synthesized nodes
// without a location borrow the location of their first located
// descendant and the message says so.
func (f *File) BuildCodeFrameError(node ast.Node, msg string) error {
	loc := ast.Location(node)
	if loc == nil {
		found := ast.Find(node, func(n ast.Node) bool { return n.Meta().Loc != nil })
		msg += " (This is an error on an internal node. Probably an internal error"
		if found != nil {
			loc = found.Meta().Loc
			msg += ". Location has been estimated."
		}
		msg += ")"
	}
	return errors.NewSyntaxError(errors.E2008, loc, "%s", msg)
}

// Wrap runs fn unless the file is ignored, in which case the code is
// returned untouched. Errors from fn are annotated with the filename and a
// code frame.
func (f *File) Wrap(code string, fn func() (*Result, error)) (*Result, error) {
	if f.Options.shouldIgnore() {
		return f.makeResult(output{code: code, ignored: true}), nil
	}
	result, err := fn()
	if err != nil {
		return nil, errors.Annotate(err, f.Options.Filename, code, f.frameOptions())
	}
	return result, nil
}

func (f *File) frameOptions() codeframe.Options {
	return codeframe.Options{HighlightCode: f.Options.HighlightCode}
}
