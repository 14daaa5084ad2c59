package transform

import (
	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/modules"
	"github.com/deepnoodle-ai/morph/sourcemap"
)

// Result is the output of compiling one file. Code, AST and Metadata are
// only populated when requested by the options.
type Result struct {
	Code     string         `json:"code"`
	AST      *ast.Program   `json:"-"`
	Map      *sourcemap.Map `json:"map,omitempty"`
	Metadata *Metadata      `json:"metadata,omitempty"`
	Ignored  bool           `json:"ignored,omitempty"`
}

// Metadata describes what a compilation used.
type Metadata struct {
	// UsedHelpers lists helper names in the order they were first used.
	UsedHelpers []string       `json:"usedHelpers"`
	Modules     ModuleMetadata `json:"modules"`
}

// ModuleMetadata lists the imports of the file.
type ModuleMetadata struct {
	Imports []modules.Import `json:"imports"`
}

type output struct {
	code    string
	mapping *sourcemap.Map
	ignored bool
}

func (f *File) makeResult(out output) *Result {
	result := &Result{Ignored: out.ignored, Map: out.mapping}
	if f.Options.Code {
		result.Code = out.code
	}
	if f.Options.AST && !out.ignored {
		result.AST = f.Program
	}
	if f.Options.Metadata {
		result.Metadata = f.Metadata
	}
	if !f.Options.Code {
		result.Map = nil
	}
	return result
}
