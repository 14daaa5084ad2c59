package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/internal/token"
	"github.com/deepnoodle-ai/wonton/assert"
)

func mustParse(t *testing.T, input string, options ...Option) *ast.Program {
	t.Helper()
	program, err := Parse(context.Background(), input, options...)
	assert.Nil(t, err)
	assert.NotNil(t, program)
	return program
}

func parseError(t *testing.T, input string, options ...Option) *errors.LocatedSyntaxError {
	t.Helper()
	_, err := Parse(context.Background(), input, options...)
	assert.NotNil(t, err)
	se, ok := err.(*errors.LocatedSyntaxError)
	assert.True(t, ok)
	return se
}

func expression(t *testing.T, input string) ast.Node {
	t.Helper()
	program := mustParse(t, input)
	assert.Len(t, program.Body, 1)
	stmt, ok := program.Body[0].(*ast.ExpressionStatement)
	assert.True(t, ok)
	return stmt.Expression
}

func TestVariableDeclarations(t *testing.T) {
	program := mustParse(t, "var a = 1, b;\nlet c = 'x'\nconst d = null")
	assert.Len(t, program.Body, 3)

	first := program.Body[0].(*ast.VariableDeclaration)
	assert.Equal(t, first.Kind, "var")
	assert.Len(t, first.Declarations, 2)
	a := first.Declarations[0].(*ast.VariableDeclarator)
	assert.True(t, ast.IsIdentifier(a.ID, "a"))
	assert.Equal(t, a.Init.(*ast.NumericLiteral).Value, 1.0)
	assert.Nil(t, first.Declarations[1].(*ast.VariableDeclarator).Init)

	assert.Equal(t, program.Body[1].(*ast.VariableDeclaration).Kind, "let")
	assert.Equal(t, program.Body[2].(*ast.VariableDeclaration).Kind, "const")
}

func TestFunctionDeclaration(t *testing.T) {
	program := mustParse(t, "function add(a, b) { return a + b; }")
	fn := program.Body[0].(*ast.FunctionDeclaration)
	assert.True(t, ast.IsIdentifier(fn.ID, "add"))
	assert.Len(t, fn.Params, 2)
	body := fn.Body.(*ast.BlockStatement)
	ret := body.Body[0].(*ast.ReturnStatement)
	bin := ret.Argument.(*ast.BinaryExpression)
	assert.Equal(t, bin.Operator, "+")

	assert.Equal(t, fn.Loc.Start, token.LineCol{Line: 1, Column: 0})
	assert.Equal(t, fn.Loc.End, token.LineCol{Line: 1, Column: 36})
}

func TestEmptyFunctionLocation(t *testing.T) {
	program := mustParse(t, "function f(){}")
	fn := program.Body[0].(*ast.FunctionDeclaration)
	assert.Equal(t, fn.ID.Meta().Loc.Start, token.LineCol{Line: 1, Column: 9})
	assert.Equal(t, fn.ID.Meta().Loc.End, token.LineCol{Line: 1, Column: 10})
	assert.Equal(t, program.Loc.End, token.LineCol{Line: 1, Column: 14})
}

func TestFunctionDeclarationRequiresName(t *testing.T) {
	err := parseError(t, "function () {}")
	assert.Equal(t, err.Code, errors.E1001)
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		operator string
		left     string
		right    string
	}{
		{"a + b * c", "+", "Identifier", "BinaryExpression"},
		{"a * b + c", "+", "BinaryExpression", "Identifier"},
		{"a - b - c", "-", "BinaryExpression", "Identifier"},
		{"a < b === c", "===", "BinaryExpression", "Identifier"},
		{"a | b & c", "|", "Identifier", "BinaryExpression"},
		{"(a + b) * c", "*", "BinaryExpression", "Identifier"},
	}
	for _, tt := range tests {
		bin, ok := expression(t, tt.input).(*ast.BinaryExpression)
		assert.True(t, ok, tt.input)
		assert.Equal(t, bin.Operator, tt.operator, tt.input)
		assert.Equal(t, string(bin.Left.Type()), tt.left, tt.input)
		assert.Equal(t, string(bin.Right.Type()), tt.right, tt.input)
	}
}

func TestLogicalExpression(t *testing.T) {
	logical := expression(t, "a || b && c").(*ast.LogicalExpression)
	assert.Equal(t, logical.Operator, "||")
	assert.Equal(t, logical.Right.(*ast.LogicalExpression).Operator, "&&")
}

func TestAssignmentIsRightAssociative(t *testing.T) {
	assign := expression(t, "a = b += 1").(*ast.AssignmentExpression)
	assert.Equal(t, assign.Operator, "=")
	inner := assign.Right.(*ast.AssignmentExpression)
	assert.Equal(t, inner.Operator, "+=")
	assert.True(t, ast.IsIdentifier(inner.Left, "b"))
}

func TestInvalidAssignmentTarget(t *testing.T) {
	err := parseError(t, "a + b = c")
	assert.Equal(t, err.Code, errors.E1005)
	assert.Contains(t, err.Message, "Invalid left-hand side in assignment")
}

func TestConditional(t *testing.T) {
	cond := expression(t, "x = a ? b : c ? d : e").(*ast.AssignmentExpression).Right.(*ast.ConditionalExpression)
	assert.True(t, ast.IsIdentifier(cond.Test, "a"))
	_, nested := cond.Alternate.(*ast.ConditionalExpression)
	assert.True(t, nested)
}

func TestSequence(t *testing.T) {
	seq := expression(t, "a, b, c").(*ast.SequenceExpression)
	assert.Len(t, seq.Expressions, 3)
}

func TestUnaryAndUpdate(t *testing.T) {
	unary := expression(t, "typeof !x").(*ast.UnaryExpression)
	assert.Equal(t, unary.Operator, "typeof")
	assert.Equal(t, unary.Argument.(*ast.UnaryExpression).Operator, "!")

	prefix := expression(t, "++i").(*ast.UpdateExpression)
	assert.True(t, prefix.Prefix)

	postfix := expression(t, "i--").(*ast.UpdateExpression)
	assert.False(t, postfix.Prefix)
	assert.Equal(t, postfix.Operator, "--")

	err := parseError(t, "++1")
	assert.Equal(t, err.Code, errors.E1005)
}

func TestPostfixAfterNewline(t *testing.T) {
	program := mustParse(t, "a\n++b")
	assert.Len(t, program.Body, 2)
	update := program.Body[1].(*ast.ExpressionStatement).Expression.(*ast.UpdateExpression)
	assert.True(t, update.Prefix)
}

func TestCallsAndMembers(t *testing.T) {
	call := expression(t, "a.b['c'](1, x)").(*ast.CallExpression)
	assert.Len(t, call.Arguments, 2)
	member := call.Callee.(*ast.MemberExpression)
	assert.True(t, member.Computed)
	inner := member.Object.(*ast.MemberExpression)
	assert.False(t, inner.Computed)
	assert.True(t, ast.IsIdentifier(inner.Property, "b"))

	// Reserved words are valid property names.
	kw := expression(t, "a.default").(*ast.MemberExpression)
	assert.True(t, ast.IsIdentifier(kw.Property, "default"))
	kw = expression(t, "promise.catch").(*ast.MemberExpression)
	assert.True(t, ast.IsIdentifier(kw.Property, "catch"))
}

func TestNew(t *testing.T) {
	expr := expression(t, "new a.B(1)").(*ast.NewExpression)
	_, ok := expr.Callee.(*ast.MemberExpression)
	assert.True(t, ok)
	assert.Len(t, expr.Arguments, 1)

	bare := expression(t, "new Foo").(*ast.NewExpression)
	assert.Len(t, bare.Arguments, 0)

	called := expression(t, "new Foo().bar()").(*ast.CallExpression)
	_, ok = called.Callee.(*ast.MemberExpression).Object.(*ast.NewExpression)
	assert.True(t, ok)
}

func TestArrays(t *testing.T) {
	arr := expression(t, "[1, , 'a',]").(*ast.ArrayExpression)
	assert.Len(t, arr.Elements, 3)
	assert.Nil(t, arr.Elements[1])
	assert.Equal(t, arr.Elements[2].(*ast.StringLiteral).Value, "a")
}

func TestObjects(t *testing.T) {
	obj := expression(t, "({a: 1, 'b': 2, 3: c, [k]: v, d, m(x) { return x }, if: 0})").(*ast.ObjectExpression)
	assert.Len(t, obj.Properties, 7)

	computed := obj.Properties[3].(*ast.ObjectProperty)
	assert.True(t, computed.Computed)

	shorthand := obj.Properties[4].(*ast.ObjectProperty)
	assert.True(t, ast.IsIdentifier(shorthand.Value, "d"))
	assert.True(t, shorthand.Key != shorthand.Value)

	method := obj.Properties[5].(*ast.ObjectProperty)
	fn := method.Value.(*ast.FunctionExpression)
	assert.Len(t, fn.Params, 1)

	assert.True(t, ast.IsIdentifier(obj.Properties[6].(*ast.ObjectProperty).Key, "if"))
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"42", 42},
		{"1.5", 1.5},
		{"1e3", 1000},
		{"0xff", 255},
		{".5", 0.5},
	}
	for _, tt := range tests {
		num := expression(t, tt.input).(*ast.NumericLiteral)
		assert.Equal(t, num.Value, tt.expected)
		assert.Equal(t, num.Raw, tt.input)
	}
}

func TestIfElse(t *testing.T) {
	program := mustParse(t, "if (a) b(); else if (c) { d() } else e()")
	stmt := program.Body[0].(*ast.IfStatement)
	elseIf := stmt.Alternate.(*ast.IfStatement)
	_, ok := elseIf.Consequent.(*ast.BlockStatement)
	assert.True(t, ok)
	assert.NotNil(t, elseIf.Alternate)
}

func TestForLoops(t *testing.T) {
	program := mustParse(t, "for (var i = 0; i < n; i++) { if (i) break; continue }")
	loop := program.Body[0].(*ast.ForStatement)
	assert.NotNil(t, loop.Init)
	assert.NotNil(t, loop.Test)
	assert.NotNil(t, loop.Update)

	program = mustParse(t, "for (;;) {}")
	empty := program.Body[0].(*ast.ForStatement)
	assert.Nil(t, empty.Init)
	assert.Nil(t, empty.Test)
	assert.Nil(t, empty.Update)

	program = mustParse(t, "for (var k in obj) x[k] = 1")
	forIn := program.Body[0].(*ast.ForInStatement)
	assert.Equal(t, forIn.Left.Type(), ast.TypeVariableDeclaration)
	assert.True(t, ast.IsIdentifier(forIn.Right, "obj"))

	program = mustParse(t, "for (k in obj);")
	forIn = program.Body[0].(*ast.ForInStatement)
	assert.True(t, ast.IsIdentifier(forIn.Left, "k"))

	program = mustParse(t, "for (var i = ('a' in b); i;) {}")
	_, ok := program.Body[0].(*ast.ForStatement)
	assert.True(t, ok)
}

func TestBreakOutsideLoop(t *testing.T) {
	err := parseError(t, "break;")
	assert.Contains(t, err.Message, "Unsyntactic break")

	err = parseError(t, "for (;;) { function f() { continue } }")
	assert.Contains(t, err.Message, "Unsyntactic continue")
}

func TestTryCatch(t *testing.T) {
	program := mustParse(t, "try { a() } catch (e) { b(e) } finally { c() }")
	stmt := program.Body[0].(*ast.TryStatement)
	clause := stmt.Handler.(*ast.CatchClause)
	assert.True(t, ast.IsIdentifier(clause.Param, "e"))
	assert.NotNil(t, stmt.Finalizer)

	err := parseError(t, "try {}")
	assert.Contains(t, err.Message, "Missing catch or finally clause")
}

func TestThrow(t *testing.T) {
	program := mustParse(t, "throw new Error('x')")
	_, ok := program.Body[0].(*ast.ThrowStatement)
	assert.True(t, ok)

	err := parseError(t, "throw\nx")
	assert.Contains(t, err.Message, "Illegal newline after throw")
}

func TestReturn(t *testing.T) {
	err := parseError(t, "return 1")
	assert.Contains(t, err.Message, "'return' outside of function")

	program := mustParse(t, "return 1", WithAllowReturnOutsideFunction(true))
	ret := program.Body[0].(*ast.ReturnStatement)
	assert.NotNil(t, ret.Argument)

	program = mustParse(t, "function f() { return\n1 }")
	body := program.Body[0].(*ast.FunctionDeclaration).Body.(*ast.BlockStatement)
	assert.Len(t, body.Body, 2)
	assert.Nil(t, body.Body[0].(*ast.ReturnStatement).Argument)
}

func TestAutomaticSemicolons(t *testing.T) {
	program := mustParse(t, "a = 1\nb = 2\n{ c() }")
	assert.Len(t, program.Body, 3)

	err := parseError(t, "a = 1 b = 2")
	assert.Equal(t, err.Code, errors.E1001)
	assert.Equal(t, err.Loc.Start, token.LineCol{Line: 1, Column: 6})
}

func TestImports(t *testing.T) {
	program := mustParse(t, `import "polyfill";
import def from "a";
import * as ns from "b";
import def2, {x, y as z, default as w} from "c";`)
	assert.Len(t, program.Body, 4)

	bare := program.Body[0].(*ast.ImportDeclaration)
	assert.Len(t, bare.Specifiers, 0)
	assert.Equal(t, bare.Source.(*ast.StringLiteral).Value, "polyfill")

	def := program.Body[1].(*ast.ImportDeclaration)
	assert.Equal(t, def.Specifiers[0].Type(), ast.TypeImportDefaultSpecifier)

	ns := program.Body[2].(*ast.ImportDeclaration)
	assert.Equal(t, ns.Specifiers[0].Type(), ast.TypeImportNamespaceSpecifier)

	mixed := program.Body[3].(*ast.ImportDeclaration)
	assert.Len(t, mixed.Specifiers, 4)
	x := mixed.Specifiers[1].(*ast.ImportSpecifier)
	assert.True(t, ast.IsIdentifier(x.Imported, "x"))
	assert.True(t, ast.IsIdentifier(x.Local, "x"))
	z := mixed.Specifiers[2].(*ast.ImportSpecifier)
	assert.True(t, ast.IsIdentifier(z.Imported, "y"))
	assert.True(t, ast.IsIdentifier(z.Local, "z"))
	w := mixed.Specifiers[3].(*ast.ImportSpecifier)
	assert.True(t, ast.IsIdentifier(w.Imported, "default"))
}

func TestImportRequiresModule(t *testing.T) {
	err := parseError(t, `import a from "a"`, WithSourceType(SourceScript))
	assert.Contains(t, err.Message, "sourceType: module")

	err = parseError(t, `import {if} from "a"`)
	assert.Equal(t, err.Code, errors.E1006)
}

func TestTemplateLiteral(t *testing.T) {
	tpl := expression(t, "`a${b}c${ d + 1 }`").(*ast.TemplateLiteral)
	assert.Len(t, tpl.Quasis, 3)
	assert.Len(t, tpl.Expressions, 2)

	first := tpl.Quasis[0].(*ast.TemplateElement)
	assert.Equal(t, first.Raw, "a")
	assert.False(t, first.Tail)
	last := tpl.Quasis[2].(*ast.TemplateElement)
	assert.Equal(t, last.Raw, "")
	assert.True(t, last.Tail)

	b := tpl.Expressions[0]
	assert.Equal(t, b.Meta().Loc.Start, token.LineCol{Line: 1, Column: 4})
	assert.Equal(t, b.Meta().Loc.End, token.LineCol{Line: 1, Column: 5})

	sum := tpl.Expressions[1].(*ast.BinaryExpression)
	assert.Equal(t, sum.Loc.Start, token.LineCol{Line: 1, Column: 10})
	assert.Equal(t, sum.Right.Meta().Loc.Start, token.LineCol{Line: 1, Column: 14})
}

func TestTemplateCookedAndRaw(t *testing.T) {
	tpl := expression(t, "`line\\n${x}`").(*ast.TemplateLiteral)
	el := tpl.Quasis[0].(*ast.TemplateElement)
	assert.Equal(t, el.Raw, `line\n`)
	assert.Equal(t, el.Cooked, "line\n")
}

func TestTemplateNestedBraces(t *testing.T) {
	tpl := expression(t, "`${ {a: '}'}.a }${`in${x}`}`").(*ast.TemplateLiteral)
	assert.Len(t, tpl.Expressions, 2)
	_, ok := tpl.Expressions[0].(*ast.MemberExpression)
	assert.True(t, ok)
	_, ok = tpl.Expressions[1].(*ast.TemplateLiteral)
	assert.True(t, ok)
}

func TestTemplateMultilineLocations(t *testing.T) {
	program := mustParse(t, "x = `a\n${\n  y}`")
	tpl := program.Body[0].(*ast.ExpressionStatement).Expression.(*ast.AssignmentExpression).Right.(*ast.TemplateLiteral)
	y := tpl.Expressions[0]
	assert.Equal(t, y.Meta().Loc.Start, token.LineCol{Line: 3, Column: 2})
}

func TestTemplateSubstitutionError(t *testing.T) {
	err := parseError(t, "x = `${a +}`")
	assert.Equal(t, err.Loc.Start.Line, 1)
	assert.Equal(t, err.Loc.Start.Column, 10)
}

func TestTaggedTemplate(t *testing.T) {
	tagged := expression(t, "tag`hello ${name}`").(*ast.TaggedTemplateExpression)
	assert.True(t, ast.IsIdentifier(tagged.Tag, "tag"))
	assert.Len(t, tagged.Quasi.(*ast.TemplateLiteral).Expressions, 1)
}

func TestComments(t *testing.T) {
	program := mustParse(t, "// leading\nvar a = 1; /* note */\nfunction f() {\n  x();\n  // end of body\n}\n// eof")
	decl := program.Body[0]
	assert.Len(t, decl.Meta().LeadingComments, 1)
	assert.Equal(t, decl.Meta().LeadingComments[0].Value, " leading")

	fn := program.Body[1]
	assert.Len(t, fn.Meta().LeadingComments, 1)
	assert.Equal(t, fn.Meta().LeadingComments[0].Value, " note ")
	assert.True(t, fn.Meta().LeadingComments[0].Block)

	body := fn.(*ast.FunctionDeclaration).Body.(*ast.BlockStatement)
	assert.Equal(t, body.Body[0].Meta().TrailingComments[0].Value, " end of body")
	assert.Equal(t, fn.Meta().TrailingComments[0].Value, " eof")
}

func TestCommentOnlyProgram(t *testing.T) {
	program := mustParse(t, "/* nothing */")
	assert.Len(t, program.Body, 0)
	assert.Len(t, program.LeadingComments, 1)
}

func TestSyntaxErrorMessages(t *testing.T) {
	tests := []struct {
		input   string
		code    errors.ErrorCode
		message string
	}{
		{"var = 1", errors.E1001, "Unexpected token, expected identifier (1:4)"},
		{"foo(", errors.E1007, "Unexpected end of input (1:4)"},
		{"a = 'unterminated", errors.E1002, "Unterminated string literal (1:4)"},
		{"x = )", errors.E1001, "Unexpected token (1:4)"},
		{"1x", errors.E1008, "Invalid number literal"},
	}
	for _, tt := range tests {
		err := parseError(t, tt.input)
		assert.Equal(t, err.Code, tt.code, tt.input)
		assert.True(t, strings.HasPrefix(err.Message, tt.message), err.Message)
	}
}

func TestErrorCarriesSourceLine(t *testing.T) {
	err := parseError(t, "ok()\nbad(;", WithFilename("input.js"))
	assert.Equal(t, err.SourceLine, "bad(;")
	assert.Equal(t, err.Loc.Start.Line, 2)
}

func TestMaxDepth(t *testing.T) {
	input := strings.Repeat("(", 50) + "x" + strings.Repeat(")", 50)
	err := parseError(t, input, WithMaxDepth(20))
	assert.Equal(t, err.Code, errors.E1009)

	mustParse(t, input)
}

func TestContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Parse(ctx, "a; b; c")
	assert.ErrorIs(t, err, context.Canceled)
}
