package builtins

import (
	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/transform"
	"github.com/deepnoodle-ai/morph/traverse"
)

// TemplateLiterals compiles template literals to string concatenation and
// tagged templates to a call of the tag with a cached strings object.
func TemplateLiterals() *transform.Plugin {
	p := transform.NewPlugin("es6.templateLiterals", transform.Metadata{Group: "builtin-basic"})
	p.Visitor.
		Enter(ast.TypeTaggedTemplateExpression, taggedTemplate).
		Enter(ast.TypeTemplateLiteral, templateLiteral)
	return p
}

func taggedTemplate(path *traverse.Path, state any) error {
	pass := state.(*transform.Pass)
	node := path.Node.(*ast.TaggedTemplateExpression)
	quasi := node.Quasi.(*ast.TemplateLiteral)

	var cooked, raw []ast.Node
	for _, q := range quasi.Quasis {
		elem := q.(*ast.TemplateElement)
		cooked = append(cooked, ast.NewStringLiteral(elem.Cooked))
		raw = append(raw, ast.NewStringLiteral(elem.Raw))
	}
	helper := "tagged-template-literal"
	if pass.File.IsLoose(pass.Key) {
		helper += "-loose"
	}
	templateObject, err := pass.File.AddTemplateObject(helper, ast.NewArray(cooked...), ast.NewArray(raw...))
	if err != nil {
		return err
	}
	args := append([]ast.Node{templateObject}, quasi.Expressions...)
	call := ast.NewCall(node.Tag, args...)
	call.InternalLoc = ast.Location(node)
	path.Replace(call)
	return nil
}

func templateLiteral(path *traverse.Path, state any) error {
	node := path.Node.(*ast.TemplateLiteral)
	if path.ParentNode() != nil && path.ParentNode().Type() == ast.TypeTaggedTemplateExpression {
		return nil
	}

	var nodes []ast.Node
	for i, q := range node.Quasis {
		if s := q.(*ast.TemplateElement).Cooked; s != "" {
			nodes = append(nodes, ast.NewStringLiteral(s))
		}
		if i < len(node.Expressions) {
			nodes = append(nodes, node.Expressions[i])
		}
	}
	// The result must be a string even when it starts with two
	// expressions.
	if !isString(nodes, 0) && !isString(nodes, 1) {
		nodes = append([]ast.Node{ast.NewStringLiteral("")}, nodes...)
	}

	root := nodes[0]
	for _, n := range nodes[1:] {
		root = ast.NewBinary("+", root, n)
	}
	root.Meta().InternalLoc = ast.Location(node)
	path.Replace(root)
	return nil
}

func isString(nodes []ast.Node, i int) bool {
	if i >= len(nodes) {
		return false
	}
	_, ok := nodes[i].(*ast.StringLiteral)
	return ok
}
