package builtins

import (
	"slices"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/transform"
	"github.com/deepnoodle-ai/morph/traverse"
)

// BlockHoist orders the statements of every block by hoist priority,
// highest first. Statements of equal priority keep their order. It runs
// again after every other pass.
func BlockHoist() *transform.Plugin {
	p := transform.NewPlugin("internal.blockHoist", transform.Metadata{SecondPass: true})
	sortBody := func(path *traverse.Path, state any) error {
		switch n := path.Node.(type) {
		case *ast.Program:
			hoist(n.Body)
		case *ast.BlockStatement:
			hoist(n.Body)
		}
		return nil
	}
	p.Visitor.
		Exit(ast.TypeProgram, sortBody).
		Exit(ast.TypeBlockStatement, sortBody)
	return p
}

func hoist(body []ast.Node) {
	if !slices.ContainsFunc(body, func(n ast.Node) bool { return !ast.IsNil(n) && n.Meta().HasBlockHoist }) {
		return
	}
	slices.SortStableFunc(body, func(a, b ast.Node) int {
		pa, pb := a.Meta().Priority(), b.Meta().Priority()
		switch {
		case pa > pb:
			return -1
		case pa < pb:
			return 1
		}
		return 0
	})
}
