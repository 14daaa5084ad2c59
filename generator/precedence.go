package generator

import "github.com/deepnoodle-ai/morph/ast"

// Expression precedence, lowest first. A child printed where a higher
// precedence is required is wrapped in parentheses.
const (
	precSequence = iota
	precAssign
	precConditional
	precOr
	precAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precCall
	precPrimary
)

var binaryPrecedence = map[string]int{
	"||":         precOr,
	"&&":         precAnd,
	"|":          precBitOr,
	"^":          precBitXor,
	"&":          precBitAnd,
	"==":         precEquality,
	"!=":         precEquality,
	"===":        precEquality,
	"!==":        precEquality,
	"<":          precRelational,
	">":          precRelational,
	"<=":         precRelational,
	">=":         precRelational,
	"in":         precRelational,
	"instanceof": precRelational,
	"+":          precAdditive,
	"-":          precAdditive,
	"*":          precMultiplicative,
	"/":          precMultiplicative,
	"%":          precMultiplicative,
}

func precedence(n ast.Node) int {
	switch n := n.(type) {
	case *ast.SequenceExpression:
		return precSequence
	case *ast.AssignmentExpression:
		return precAssign
	case *ast.ConditionalExpression:
		return precConditional
	case *ast.BinaryExpression:
		return binaryPrecedence[n.Operator]
	case *ast.LogicalExpression:
		return binaryPrecedence[n.Operator]
	case *ast.UnaryExpression:
		return precUnary
	case *ast.UpdateExpression:
		if n.Prefix {
			return precUnary
		}
		return precPostfix
	case *ast.CallExpression, *ast.NewExpression, *ast.MemberExpression, *ast.TaggedTemplateExpression:
		return precCall
	}
	return precPrimary
}

// hasCall reports whether a call appears in the callee chain of n, which
// would bind to a surrounding `new` unless parenthesized.
func hasCall(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.CallExpression:
		return true
	case *ast.MemberExpression:
		return hasCall(n.Object)
	case *ast.TaggedTemplateExpression:
		return hasCall(n.Tag)
	}
	return false
}

// startsWithBraceOrFunction reports whether the printed expression would
// begin with `{` or `function`, which an expression statement may not.
func startsWithBraceOrFunction(n ast.Node) bool {
	for {
		switch x := n.(type) {
		case *ast.ObjectExpression, *ast.FunctionExpression:
			return true
		case *ast.CallExpression:
			n = x.Callee
		case *ast.MemberExpression:
			n = x.Object
		case *ast.TaggedTemplateExpression:
			n = x.Tag
		case *ast.BinaryExpression:
			n = x.Left
		case *ast.LogicalExpression:
			n = x.Left
		case *ast.AssignmentExpression:
			n = x.Left
		case *ast.ConditionalExpression:
			n = x.Test
		case *ast.SequenceExpression:
			if len(x.Expressions) == 0 {
				return false
			}
			n = x.Expressions[0]
		case *ast.UpdateExpression:
			if x.Prefix {
				return false
			}
			n = x.Argument
		default:
			return false
		}
	}
}
