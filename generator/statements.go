package generator

import "github.com/deepnoodle-ai/morph/ast"

func (p *printer) printStatement(node ast.Node) {
	switch n := node.(type) {
	case *ast.Program:
		p.printStatements(n.Body)

	case *ast.ExpressionStatement:
		if startsWithBraceOrFunction(n.Expression) {
			p.write("(")
			p.printExpr(n.Expression, precSequence)
			p.write(")")
		} else {
			p.printExpr(n.Expression, precSequence)
		}
		p.write(";")

	case *ast.VariableDeclaration:
		p.printVariableDeclaration(n)
		p.write(";")

	case *ast.FunctionDeclaration:
		p.printFunction(n.ID, n.Params, n.Body)

	case *ast.ReturnStatement:
		p.write("return")
		if n.Argument != nil {
			p.write(" ")
			p.printExpr(n.Argument, precSequence)
		}
		p.write(";")

	case *ast.ThrowStatement:
		p.write("throw ")
		p.printExpr(n.Argument, precSequence)
		p.write(";")

	case *ast.IfStatement:
		p.write("if")
		p.space()
		p.write("(")
		p.printExpr(n.Test, precSequence)
		p.write(")")
		p.space()
		p.print(n.Consequent)
		if n.Alternate != nil {
			p.space()
			p.write("else")
			if _, isBlock := n.Alternate.(*ast.BlockStatement); !isBlock && p.compact {
				p.write(" ")
			} else {
				p.space()
			}
			p.print(n.Alternate)
		}

	case *ast.BlockStatement:
		p.printBlock(n)

	case *ast.ForStatement:
		p.write("for")
		p.space()
		p.write("(")
		if n.Init != nil {
			if decl, ok := n.Init.(*ast.VariableDeclaration); ok {
				p.mark(decl)
				p.printVariableDeclaration(decl)
			} else {
				p.printExpr(n.Init, precSequence)
			}
		}
		p.write(";")
		if n.Test != nil {
			p.space()
			p.printExpr(n.Test, precSequence)
		}
		p.write(";")
		if n.Update != nil {
			p.space()
			p.printExpr(n.Update, precSequence)
		}
		p.write(")")
		p.printLoopBody(n.Body)

	case *ast.ForInStatement:
		p.write("for")
		p.space()
		p.write("(")
		if decl, ok := n.Left.(*ast.VariableDeclaration); ok {
			p.mark(decl)
			p.printVariableDeclaration(decl)
		} else {
			p.printExpr(n.Left, precCall)
		}
		p.write(" in ")
		p.printExpr(n.Right, precSequence)
		p.write(")")
		p.printLoopBody(n.Body)

	case *ast.TryStatement:
		p.write("try")
		p.space()
		p.print(n.Block)
		if n.Handler != nil {
			p.space()
			p.print(n.Handler)
		}
		if n.Finalizer != nil {
			p.space()
			p.write("finally")
			p.space()
			p.print(n.Finalizer)
		}

	case *ast.EmptyStatement:
		p.write(";")

	case *ast.BreakStatement:
		p.write("break;")

	case *ast.ContinueStatement:
		p.write("continue;")

	case *ast.ImportDeclaration:
		p.printImport(n)

	default:
		p.fail(node)
	}
}

// printStatements prints a statement list, one statement per line. A
// blank line between two statements of the original source is kept.
func (p *printer) printStatements(stmts []ast.Node) {
	var prev ast.Node
	for i, stmt := range stmts {
		if ast.IsNil(stmt) {
			continue
		}
		if i > 0 {
			p.newline()
			if prev != nil && blankLineBetween(prev, stmt) {
				p.newline()
			}
		}
		p.writeIndent()
		p.print(stmt)
		prev = stmt
	}
}

func blankLineBetween(prev, next ast.Node) bool {
	end := prev.Meta().Loc
	if end == nil {
		return false
	}
	start := next.Meta().Loc
	if cs := next.Meta().LeadingComments; len(cs) > 0 && cs[0].Loc != nil {
		start = cs[0].Loc
	}
	if start == nil {
		return false
	}
	return start.Start.Line > end.End.Line+1
}

func (p *printer) printBlock(n *ast.BlockStatement) {
	p.write("{")
	if len(n.Body) == 0 && (len(n.TrailingComments) == 0 || !p.comments) {
		p.write("}")
		return
	}
	p.newline()
	p.indent++
	p.printStatements(n.Body)
	if len(n.Body) == 0 {
		for _, c := range n.TrailingComments {
			p.writeIndent()
			p.printComment(c)
			p.newline()
		}
	} else {
		p.newline()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

// printBody prints a function body. An empty body is attached to the
// parameter list: `function g(){}`.
func (p *printer) printBody(body ast.Node) {
	if block, ok := body.(*ast.BlockStatement); ok && len(block.Body) == 0 && len(block.LeadingComments) == 0 &&
		(len(block.TrailingComments) == 0 || !p.comments) {
		p.mark(block)
		p.write("{}")
		return
	}
	p.space()
	p.print(body)
}

func (p *printer) printLoopBody(body ast.Node) {
	if _, ok := body.(*ast.EmptyStatement); ok {
		p.print(body)
		return
	}
	p.space()
	p.print(body)
}

func (p *printer) printVariableDeclaration(n *ast.VariableDeclaration) {
	p.write(n.Kind + " ")
	for i, d := range n.Declarations {
		if i > 0 {
			p.write(",")
			p.space()
		}
		p.print(d)
	}
}

func (p *printer) printImport(n *ast.ImportDeclaration) {
	p.write("import ")
	var named []ast.Node
	printed := false
	for _, spec := range n.Specifiers {
		switch s := spec.(type) {
		case *ast.ImportDefaultSpecifier:
			p.print(s)
			printed = true
		case *ast.ImportNamespaceSpecifier:
			if printed {
				p.write(",")
				p.space()
			}
			p.print(s)
			printed = true
		default:
			named = append(named, spec)
		}
	}
	if len(named) > 0 {
		if printed {
			p.write(",")
			p.space()
		}
		p.write("{")
		p.space()
		for i, spec := range named {
			if i > 0 {
				p.write(",")
				p.space()
			}
			p.print(spec)
		}
		p.space()
		p.write("}")
		printed = true
	}
	if printed {
		p.write(" from ")
	}
	p.print(n.Source)
	p.write(";")
}
