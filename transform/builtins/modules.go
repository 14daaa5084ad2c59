package builtins

import (
	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/transform"
	"github.com/deepnoodle-ai/morph/traverse"
)

// Modules rewrites import declarations with the file's module formatter
// and places the imports added during compilation at the top of the
// program.
func Modules() *transform.Plugin {
	p := transform.NewPlugin("es6.modules", transform.Metadata{Group: "builtin-modules"})
	p.Visitor.
		Enter(ast.TypeImportDeclaration, importDeclaration).
		Exit(ast.TypeProgram, func(path *traverse.Path, state any) error {
			state.(*transform.Pass).File.FlushDynamicImports()
			return nil
		})
	return p
}

func importDeclaration(path *traverse.Path, state any) error {
	file := state.(*transform.Pass).File
	node := path.Node.(*ast.ImportDeclaration)
	if source, ok := node.Source.(*ast.StringLiteral); ok {
		source.Value = file.ResolveModuleSource(source.Value)
	}

	formatter := file.Formatter()
	var nodes []ast.Node
	if len(node.Specifiers) == 0 {
		if err := formatter.ImportDeclaration(node, &nodes); err != nil {
			return err
		}
	} else {
		for _, spec := range node.Specifiers {
			if err := formatter.ImportSpecifier(spec, node, &nodes); err != nil {
				return err
			}
		}
	}
	for _, n := range nodes {
		n.Meta().InternalLoc = ast.Location(node)
	}
	if len(nodes) == 1 && node.HasBlockHoist {
		nodes[0].Meta().SetBlockHoist(node.BlockHoist)
	}
	path.ReplaceWithMultiple(nodes...)
	return nil
}
