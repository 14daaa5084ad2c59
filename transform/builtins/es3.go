package builtins

import (
	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/transform"
	"github.com/deepnoodle-ai/morph/traverse"
)

// MemberExpressionLiterals quotes member properties that are reserved
// words in ES3: a.default becomes a["default"].
func MemberExpressionLiterals() *transform.Plugin {
	p := transform.NewPlugin("es3.memberExpressionLiterals", transform.Metadata{Group: "builtin-trailing"})
	p.Visitor.Exit(ast.TypeMemberExpression, func(path *traverse.Path, state any) error {
		node := path.Node.(*ast.MemberExpression)
		if prop, ok := node.Property.(*ast.Identifier); ok && !node.Computed && !traverse.IsValidIdentifier(prop.Name) {
			node.Property = quote(prop)
			node.Computed = true
		}
		return nil
	})
	return p
}

// PropertyLiterals quotes object keys that are reserved words in ES3.
func PropertyLiterals() *transform.Plugin {
	p := transform.NewPlugin("es3.propertyLiterals", transform.Metadata{Group: "builtin-trailing"})
	p.Visitor.Exit(ast.TypeObjectProperty, func(path *traverse.Path, state any) error {
		node := path.Node.(*ast.ObjectProperty)
		if key, ok := node.Key.(*ast.Identifier); ok && !node.Computed && !traverse.IsValidIdentifier(key.Name) {
			node.Key = quote(key)
		}
		return nil
	})
	return p
}

func quote(id *ast.Identifier) *ast.StringLiteral {
	s := ast.NewStringLiteral(id.Name)
	s.Loc = id.Loc
	return s
}
