package builtins

import (
	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/transform"
	"github.com/deepnoodle-ai/morph/traverse"
)

// RemoveConsole drops calls to console methods. A call used as a value is
// replaced with `void 0`.
func RemoveConsole() *transform.Plugin {
	p := transform.NewPlugin("utility.removeConsole", transform.Metadata{Group: "builtin-pre", Optional: true})
	p.Visitor.Enter(ast.TypeCallExpression, func(path *traverse.Path, state any) error {
		call := path.Node.(*ast.CallExpression)
		if !isConsole(call.Callee) {
			return nil
		}
		if path.ParentNode().Type() == ast.TypeExpressionStatement {
			path.Parent.Remove()
			path.Skip()
			return nil
		}
		path.Replace(&ast.UnaryExpression{Operator: "void", Argument: ast.NewNumericLiteral(0)})
		return nil
	})
	return p
}

// isConsole reports whether n is console or a member chain rooted at it.
func isConsole(n ast.Node) bool {
	for {
		switch x := n.(type) {
		case *ast.Identifier:
			return x.Name == "console"
		case *ast.MemberExpression:
			n = x.Object
		default:
			return false
		}
	}
}
