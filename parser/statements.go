package parser

import (
	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/internal/token"
)

// parseStatement parses one statement starting at the current token and
// leaves the current token on its last token.
func (p *Parser) parseStatement() ast.Node {
	if p.err != nil {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return p.fail(p.curToken, errors.E1009, "Maximum nesting depth exceeded")
	}

	comments := p.takeComments()
	var stmt ast.Node
	switch p.curToken.Type {
	case token.VAR, token.LET, token.CONST:
		stmt = p.parseVariableDeclaration(false)
	case token.FUNCTION:
		stmt = p.parseFunction(true)
	case token.RETURN:
		stmt = p.parseReturn()
	case token.IF:
		stmt = p.parseIf()
	case token.LBRACE:
		stmt = p.parseBlock()
	case token.FOR:
		stmt = p.parseFor()
	case token.THROW:
		stmt = p.parseThrow()
	case token.TRY:
		stmt = p.parseTry()
	case token.BREAK, token.CONTINUE:
		stmt = p.parseJump()
	case token.SEMICOLON:
		stmt = p.finish(&ast.EmptyStatement{}, p.curToken)
	case token.IMPORT:
		stmt = p.parseImport()
	default:
		stmt = p.parseExpressionStatement()
	}
	if stmt == nil || p.err != nil {
		return nil
	}
	if len(comments) > 0 {
		meta := stmt.Meta()
		meta.LeadingComments = append(comments, meta.LeadingComments...)
	}
	return stmt
}

func (p *Parser) parseExpressionStatement() ast.Node {
	start := p.curToken
	expr := p.parseExpression()
	if expr == nil || !p.semicolon() {
		return nil
	}
	return p.finish(ast.NewExpressionStatement(expr), start)
}

// parseVariableDeclaration parses `var a = 1, b`. Inside a for head the
// trailing semicolon is left to the caller.
func (p *Parser) parseVariableDeclaration(inFor bool) ast.Node {
	start := p.curToken
	decl := &ast.VariableDeclaration{Kind: start.Literal, Declarations: []ast.Node{}}
	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		idTok := p.curToken
		declarator := &ast.VariableDeclarator{ID: p.finish(ast.NewIdentifier(idTok.Literal), idTok)}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			init := p.parseAssignment()
			if init == nil {
				return nil
			}
			declarator.Init = init
		}
		p.finish(declarator, idTok)
		decl.Declarations = append(decl.Declarations, declarator)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !inFor && !p.semicolon() {
		return nil
	}
	return p.finish(decl, start)
}

func (p *Parser) parseReturn() ast.Node {
	start := p.curToken
	if p.functionDepth == 0 && !p.allowReturnOutsideFunction {
		return p.fail(start, errors.E1003, "'return' outside of function")
	}
	stmt := &ast.ReturnStatement{}
	if !p.peekTokenIs(token.SEMICOLON) && !p.peekTokenIs(token.RBRACE) &&
		!p.peekTokenIs(token.EOF) && !p.peekToken.NewlineBefore {
		p.nextToken()
		arg := p.parseExpression()
		if arg == nil {
			return nil
		}
		stmt.Argument = arg
	}
	if !p.semicolon() {
		return nil
	}
	return p.finish(stmt, start)
}

func (p *Parser) parseIf() ast.Node {
	start := p.curToken
	test := p.parseParenExpression()
	if test == nil {
		return nil
	}
	p.nextToken()
	consequent := p.parseStatement()
	if consequent == nil {
		return nil
	}
	stmt := &ast.IfStatement{Test: test, Consequent: consequent}
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		p.nextToken()
		alternate := p.parseStatement()
		if alternate == nil {
			return nil
		}
		stmt.Alternate = alternate
	}
	return p.finish(stmt, start)
}

// parseParenExpression parses `( expression )` following the current token.
func (p *Parser) parseParenExpression() ast.Node {
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	defer p.allowIn()()
	p.nextToken()
	expr := p.parseExpression()
	if expr == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

// parseBlock parses `{ ... }` with the current token on the opening brace.
func (p *Parser) parseBlock() ast.Node {
	start := p.curToken
	block := &ast.BlockStatement{Body: []ast.Node{}}
	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			return p.unexpected(p.peekToken)
		}
		p.nextToken()
		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		block.Body = append(block.Body, stmt)
	}
	p.nextToken()
	if comments := p.takeComments(); len(comments) > 0 {
		if n := len(block.Body); n > 0 {
			last := block.Body[n-1].Meta()
			last.TrailingComments = append(last.TrailingComments, comments...)
		} else {
			block.TrailingComments = comments
		}
	}
	return p.finish(block, start)
}

func (p *Parser) parseFor() ast.Node {
	start := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()

	var init ast.Node
	if !p.curTokenIs(token.SEMICOLON) {
		p.noIn = true
		if p.curTokenIs(token.VAR) || p.curTokenIs(token.LET) || p.curTokenIs(token.CONST) {
			init = p.parseVariableDeclaration(true)
		} else {
			init = p.parseExpression()
		}
		p.noIn = false
		if init == nil {
			return nil
		}
		if p.peekTokenIs(token.IN) {
			return p.parseForIn(start, init)
		}
		if !p.expectPeek(token.SEMICOLON) {
			return nil
		}
	}

	stmt := &ast.ForStatement{Init: init}
	if !p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		if stmt.Test = p.parseExpression(); stmt.Test == nil {
			return nil
		}
	}
	if !p.expectPeek(token.SEMICOLON) {
		return nil
	}
	if !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		if stmt.Update = p.parseExpression(); stmt.Update == nil {
			return nil
		}
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	if stmt.Body = p.parseLoopBody(); stmt.Body == nil {
		return nil
	}
	return p.finish(stmt, start)
}

func (p *Parser) parseForIn(start token.Token, left ast.Node) ast.Node {
	if decl, ok := left.(*ast.VariableDeclaration); ok {
		if len(decl.Declarations) != 1 || decl.Declarations[0].(*ast.VariableDeclarator).Init != nil {
			return p.fail(p.peekToken, errors.E1005, "Invalid left-hand side in for-in")
		}
	} else if !isAssignable(left) {
		return p.fail(p.peekToken, errors.E1005, "Invalid left-hand side in for-in")
	}
	p.nextToken() // in
	p.nextToken()
	right := p.parseExpression()
	if right == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	body := p.parseLoopBody()
	if body == nil {
		return nil
	}
	return p.finish(&ast.ForInStatement{Left: left, Right: right, Body: body}, start)
}

func (p *Parser) parseLoopBody() ast.Node {
	p.loopDepth++
	defer func() { p.loopDepth-- }()
	return p.parseStatement()
}

func (p *Parser) parseThrow() ast.Node {
	start := p.curToken
	if p.peekToken.NewlineBefore {
		return p.fail(p.peekToken, errors.E1003, "Illegal newline after throw")
	}
	p.nextToken()
	arg := p.parseExpression()
	if arg == nil || !p.semicolon() {
		return nil
	}
	return p.finish(&ast.ThrowStatement{Argument: arg}, start)
}

func (p *Parser) parseTry() ast.Node {
	start := p.curToken
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	block := p.parseBlock()
	if block == nil {
		return nil
	}
	stmt := &ast.TryStatement{Block: block}
	if p.peekTokenIs(token.CATCH) {
		p.nextToken()
		catchTok := p.curToken
		if !p.expectPeek(token.LPAREN) || !p.expectPeek(token.IDENT) {
			return nil
		}
		param := p.finish(ast.NewIdentifier(p.curToken.Literal), p.curToken)
		if !p.expectPeek(token.RPAREN) || !p.expectPeek(token.LBRACE) {
			return nil
		}
		body := p.parseBlock()
		if body == nil {
			return nil
		}
		stmt.Handler = p.finish(&ast.CatchClause{Param: param, Body: body}, catchTok)
	}
	if p.peekTokenIs(token.FINALLY) {
		p.nextToken()
		if !p.expectPeek(token.LBRACE) {
			return nil
		}
		if stmt.Finalizer = p.parseBlock(); stmt.Finalizer == nil {
			return nil
		}
	}
	if stmt.Handler == nil && stmt.Finalizer == nil {
		return p.fail(p.peekToken, errors.E1003, "Missing catch or finally clause")
	}
	return p.finish(stmt, start)
}

func (p *Parser) parseJump() ast.Node {
	start := p.curToken
	if p.loopDepth == 0 {
		return p.fail(start, errors.E1003, "Unsyntactic "+start.Literal)
	}
	if !p.semicolon() {
		return nil
	}
	if start.Type == token.BREAK {
		return p.finish(&ast.BreakStatement{}, start)
	}
	return p.finish(&ast.ContinueStatement{}, start)
}

// parseImport parses the import forms:
//
//	import "source";
//	import a from "source";
//	import * as ns from "source";
//	import a, {b, c as d} from "source";
func (p *Parser) parseImport() ast.Node {
	start := p.curToken
	if p.sourceType != SourceModule {
		return p.fail(start, errors.E1003, "'import' and 'export' may appear only with 'sourceType: module'")
	}
	decl := &ast.ImportDeclaration{Specifiers: []ast.Node{}}
	if p.peekTokenIs(token.STRING) {
		p.nextToken()
		decl.Source = p.finish(ast.NewStringLiteral(p.curToken.Literal), p.curToken)
		if !p.semicolon() {
			return nil
		}
		return p.finish(decl, start)
	}

	p.nextToken()
	if p.curTokenIs(token.IDENT) {
		local := p.finish(ast.NewIdentifier(p.curToken.Literal), p.curToken)
		spec := p.finish(&ast.ImportDefaultSpecifier{Local: local}, p.curToken)
		decl.Specifiers = append(decl.Specifiers, spec)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			if !p.curTokenIs(token.ASTERISK) && !p.curTokenIs(token.LBRACE) {
				return p.unexpected(p.curToken)
			}
		}
	}
	switch p.curToken.Type {
	case token.ASTERISK:
		specStart := p.curToken
		if !p.expectPeekWord("as") || !p.expectPeek(token.IDENT) {
			return nil
		}
		local := p.finish(ast.NewIdentifier(p.curToken.Literal), p.curToken)
		decl.Specifiers = append(decl.Specifiers, p.finish(&ast.ImportNamespaceSpecifier{Local: local}, specStart))
	case token.LBRACE:
		for !p.peekTokenIs(token.RBRACE) {
			p.nextToken()
			if !isIdentifierName(p.curToken) {
				return p.unexpected(p.curToken)
			}
			specStart := p.curToken
			imported := p.finish(ast.NewIdentifier(p.curToken.Literal), p.curToken)
			local := ast.Clone(imported)
			if p.peekTokenIs(token.IDENT) && p.peekToken.Literal == "as" {
				p.nextToken()
				if !p.expectPeek(token.IDENT) {
					return nil
				}
				local = p.finish(ast.NewIdentifier(p.curToken.Literal), p.curToken)
			} else if specStart.Type != token.IDENT {
				return p.fail(specStart, errors.E1006, "Unexpected keyword '"+specStart.Literal+"'")
			}
			decl.Specifiers = append(decl.Specifiers, p.finish(&ast.ImportSpecifier{Imported: imported, Local: local}, specStart))
			if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
				return nil
			}
		}
		p.nextToken()
	case token.IDENT:
		// default specifier only
	default:
		return p.unexpected(p.curToken)
	}
	if !p.expectPeekWord("from") || !p.expectPeek(token.STRING) {
		return nil
	}
	decl.Source = p.finish(ast.NewStringLiteral(p.curToken.Literal), p.curToken)
	if !p.semicolon() {
		return nil
	}
	return p.finish(decl, start)
}
