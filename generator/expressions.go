package generator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/morph/ast"
)

// printExpr prints an expression, parenthesized when its precedence is
// below min.
func (p *printer) printExpr(n ast.Node, min int) {
	if ast.IsNil(n) {
		return
	}
	if precedence(n) < min {
		p.write("(")
		p.print(n)
		p.write(")")
		return
	}
	p.print(n)
}

func (p *printer) printExpression(node ast.Node) {
	switch n := node.(type) {
	case *ast.Identifier:
		p.write(n.Name)

	case *ast.StringLiteral:
		p.write(quote(n.Value, p.quote))

	case *ast.NumericLiteral:
		if n.Raw != "" {
			p.write(n.Raw)
		} else {
			p.write(formatNumber(n.Value))
		}

	case *ast.BooleanLiteral:
		p.write(strconv.FormatBool(n.Value))

	case *ast.NullLiteral:
		p.write("null")

	case *ast.ThisExpression:
		p.write("this")

	case *ast.TemplateLiteral:
		p.write("`")
		for i, q := range n.Quasis {
			p.print(q)
			if i < len(n.Expressions) {
				p.write("${")
				p.printExpr(n.Expressions[i], precSequence)
				p.write("}")
			}
		}
		p.write("`")

	case *ast.TemplateElement:
		p.write(n.Raw)

	case *ast.TaggedTemplateExpression:
		p.printExpr(n.Tag, precCall)
		p.print(n.Quasi)

	case *ast.ArrayExpression:
		p.write("[")
		for i, el := range n.Elements {
			if i > 0 {
				p.write(",")
				if el != nil {
					p.space()
				}
			}
			p.printExpr(el, precAssign)
		}
		if k := len(n.Elements); k > 0 && n.Elements[k-1] == nil {
			p.write(",")
		}
		p.write("]")

	case *ast.ObjectExpression:
		p.write("{")
		if len(n.Properties) > 0 {
			p.space()
			for i, prop := range n.Properties {
				if i > 0 {
					p.write(",")
					p.space()
				}
				p.print(prop)
			}
			p.space()
		}
		p.write("}")

	case *ast.ObjectProperty:
		if n.Computed {
			p.write("[")
			p.printExpr(n.Key, precAssign)
			p.write("]")
		} else {
			p.print(n.Key)
			if isShorthand(n) {
				return
			}
		}
		p.write(":")
		p.space()
		p.printExpr(n.Value, precAssign)

	case *ast.FunctionExpression:
		p.printFunction(n.ID, n.Params, n.Body)

	case *ast.CallExpression:
		p.printExpr(n.Callee, precCall)
		p.printArguments(n.Arguments)

	case *ast.NewExpression:
		p.write("new ")
		if hasCall(n.Callee) {
			p.write("(")
			p.print(n.Callee)
			p.write(")")
		} else {
			p.printExpr(n.Callee, precCall)
		}
		p.printArguments(n.Arguments)

	case *ast.MemberExpression:
		if num, ok := n.Object.(*ast.NumericLiteral); ok && !n.Computed && isPlainInteger(num) {
			p.write("(")
			p.print(num)
			p.write(")")
		} else {
			p.printExpr(n.Object, precCall)
		}
		if n.Computed {
			p.write("[")
			p.printExpr(n.Property, precSequence)
			p.write("]")
		} else {
			p.write(".")
			p.print(n.Property)
		}

	case *ast.UnaryExpression:
		p.write(n.Operator)
		if needsSpaceAfterUnary(n.Operator, n.Argument) {
			p.write(" ")
		}
		p.printExpr(n.Argument, precUnary)

	case *ast.UpdateExpression:
		if n.Prefix {
			p.write(n.Operator)
			p.printExpr(n.Argument, precUnary)
		} else {
			p.printExpr(n.Argument, precPostfix)
			p.write(n.Operator)
		}

	case *ast.BinaryExpression:
		p.printBinary(n.Operator, n.Left, n.Right)

	case *ast.LogicalExpression:
		p.printBinary(n.Operator, n.Left, n.Right)

	case *ast.AssignmentExpression:
		p.printExpr(n.Left, precCall)
		p.space()
		p.write(n.Operator)
		p.space()
		p.printExpr(n.Right, precAssign)

	case *ast.ConditionalExpression:
		p.printExpr(n.Test, precOr)
		p.space()
		p.write("?")
		p.space()
		p.printExpr(n.Consequent, precAssign)
		p.space()
		p.write(":")
		p.space()
		p.printExpr(n.Alternate, precAssign)

	case *ast.SequenceExpression:
		for i, e := range n.Expressions {
			if i > 0 {
				p.write(",")
				p.space()
			}
			p.printExpr(e, precAssign)
		}

	case *ast.VariableDeclarator:
		p.print(n.ID)
		if n.Init != nil {
			p.space()
			p.write("=")
			p.space()
			p.printExpr(n.Init, precAssign)
		}

	case *ast.CatchClause:
		p.write("catch")
		p.space()
		p.write("(")
		p.print(n.Param)
		p.write(")")
		p.space()
		p.print(n.Body)

	case *ast.ImportDefaultSpecifier:
		p.print(n.Local)

	case *ast.ImportNamespaceSpecifier:
		p.write("* as ")
		p.print(n.Local)

	case *ast.ImportSpecifier:
		p.print(n.Imported)
		if imported, ok := n.Imported.(*ast.Identifier); !ok || !ast.IsIdentifier(n.Local, imported.Name) {
			p.write(" as ")
			p.print(n.Local)
		}

	default:
		p.fail(node)
	}
}

func (p *printer) printFunction(id ast.Node, params []ast.Node, body ast.Node) {
	p.write("function")
	if id != nil {
		p.write(" ")
		p.print(id)
	}
	p.write("(")
	for i, param := range params {
		if i > 0 {
			p.write(",")
			p.space()
		}
		p.print(param)
	}
	p.write(")")
	p.printBody(body)
}

func (p *printer) printArguments(args []ast.Node) {
	p.write("(")
	for i, arg := range args {
		if i > 0 {
			p.write(",")
			p.space()
		}
		p.printExpr(arg, precAssign)
	}
	p.write(")")
}

func (p *printer) printBinary(op string, left, right ast.Node) {
	prec := binaryPrecedence[op]
	p.printExpr(left, prec)
	word := op == "in" || op == "instanceof"
	if word {
		p.write(" ")
	} else {
		p.space()
	}
	p.write(op)
	if word || (p.compact && startsWithSign(right, op)) {
		p.write(" ")
	} else {
		p.space()
	}
	p.printExpr(right, prec+1)
}

func isShorthand(n *ast.ObjectProperty) bool {
	key, ok := n.Key.(*ast.Identifier)
	return ok && ast.IsIdentifier(n.Value, key.Name)
}

func isPlainInteger(n *ast.NumericLiteral) bool {
	text := n.Raw
	if text == "" {
		text = formatNumber(n.Value)
	}
	return !strings.ContainsAny(text, ".eExX")
}

// needsSpaceAfterUnary keeps word operators apart from their operand and
// stops `- -x` from printing as `--x`.
func needsSpaceAfterUnary(op string, arg ast.Node) bool {
	if op == "typeof" || op == "void" || op == "delete" {
		return true
	}
	return startsWithSign(arg, op)
}

// startsWithSign reports whether n prints with a leading + or - matching
// the last character of op.
func startsWithSign(n ast.Node, op string) bool {
	last := op[len(op)-1]
	if last != '+' && last != '-' {
		return false
	}
	var argOp string
	switch x := n.(type) {
	case *ast.UnaryExpression:
		argOp = x.Operator
	case *ast.UpdateExpression:
		if x.Prefix {
			argOp = x.Operator
		}
	case *ast.NumericLiteral:
		if x.Raw == "" && x.Value < 0 {
			argOp = "-"
		}
	}
	return argOp != "" && argOp[0] == last
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	s := strconv.FormatFloat(v, 'g', -1, 64)
	// JavaScript writes exponents without leading zeros: 1e-7, not 1e-07.
	if i := strings.IndexByte(s, 'e'); i >= 0 && i+2 < len(s) {
		exp := strings.TrimLeft(s[i+2:], "0")
		s = s[:i+2] + exp
	}
	return s
}

// quote returns s as a string literal delimited by q.
func quote(s string, q byte) string {
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch r {
		case rune(q):
			b.WriteByte('\\')
			b.WriteByte(q)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\u2028', '\u2029':
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte(q)
	return b.String()
}
