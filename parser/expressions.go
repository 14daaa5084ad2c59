package parser

import (
	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/internal/token"
)

// parseExpression parses a full expression, including comma sequences.
func (p *Parser) parseExpression() ast.Node {
	first := p.parseAssignment()
	if first == nil || !p.peekTokenIs(token.COMMA) {
		return first
	}
	seq := &ast.SequenceExpression{Expressions: []ast.Node{first}}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		next := p.parseAssignment()
		if next == nil {
			return nil
		}
		seq.Expressions = append(seq.Expressions, next)
	}
	return p.finishFrom(seq, first)
}

// parseAssignment parses a single expression without a top-level comma.
func (p *Parser) parseAssignment() ast.Node {
	return p.parseNode(LOWEST)
}

func (p *Parser) parseNode(precedence int) ast.Node {
	if p.err != nil {
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > p.maxDepth {
		return p.fail(p.curToken, errors.E1009, "Maximum nesting depth exceeded")
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		return p.unexpected(p.curToken)
	}
	left := prefix()
	if left == nil {
		return nil
	}
	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		if left = infix(left); left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Node {
	return p.finish(ast.NewIdentifier(p.curToken.Literal), p.curToken)
}

func (p *Parser) parseThis() ast.Node {
	return p.finish(&ast.ThisExpression{}, p.curToken)
}

func (p *Parser) parseNull() ast.Node {
	return p.finish(&ast.NullLiteral{}, p.curToken)
}

func (p *Parser) parseBoolean() ast.Node {
	return p.finish(ast.NewBooleanLiteral(p.curTokenIs(token.TRUE)), p.curToken)
}

func (p *Parser) parseString() ast.Node {
	return p.finish(ast.NewStringLiteral(p.curToken.Literal), p.curToken)
}

func (p *Parser) parseUnary() ast.Node {
	start := p.curToken
	p.nextToken()
	arg := p.parseNode(PREFIX)
	if arg == nil {
		return nil
	}
	if start.Type == token.PLUS_PLUS || start.Type == token.MINUS_MINUS {
		if !isAssignable(arg) {
			return p.fail(start, errors.E1005, "Invalid left-hand side in prefix operation")
		}
		return p.finish(&ast.UpdateExpression{Operator: start.Literal, Argument: arg, Prefix: true}, start)
	}
	return p.finish(&ast.UnaryExpression{Operator: start.Literal, Argument: arg}, start)
}

func (p *Parser) parsePostfix(left ast.Node) ast.Node {
	if !isAssignable(left) {
		return p.fail(p.curToken, errors.E1005, "Invalid left-hand side in postfix operation")
	}
	return p.finishFrom(&ast.UpdateExpression{Operator: p.curToken.Literal, Argument: left}, left)
}

func (p *Parser) parseBinary(left ast.Node) ast.Node {
	op := p.curToken
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseNode(precedence)
	if right == nil {
		return nil
	}
	if op.Type == token.AND || op.Type == token.OR {
		return p.finishFrom(&ast.LogicalExpression{Operator: op.Literal, Left: left, Right: right}, left)
	}
	return p.finishFrom(ast.NewBinary(op.Literal, left, right), left)
}

// parseAssign is right associative: `a = b = c` assigns c to b first.
func (p *Parser) parseAssign(left ast.Node) ast.Node {
	op := p.curToken
	if !isAssignable(left) {
		return p.fail(op, errors.E1005, "Invalid left-hand side in assignment")
	}
	p.nextToken()
	right := p.parseNode(LOWEST)
	if right == nil {
		return nil
	}
	return p.finishFrom(ast.NewAssignment(op.Literal, left, right), left)
}

func (p *Parser) parseConditional(test ast.Node) ast.Node {
	restore := p.allowIn()
	p.nextToken()
	consequent := p.parseNode(LOWEST)
	restore()
	if consequent == nil || !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	alternate := p.parseNode(LOWEST)
	if alternate == nil {
		return nil
	}
	return p.finishFrom(&ast.ConditionalExpression{Test: test, Consequent: consequent, Alternate: alternate}, test)
}

func (p *Parser) parseGrouped() ast.Node {
	defer p.allowIn()()
	p.nextToken()
	expr := p.parseExpression()
	if expr == nil || !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) parseCall(callee ast.Node) ast.Node {
	args, ok := p.parseArguments()
	if !ok {
		return nil
	}
	return p.finishFrom(ast.NewCall(callee, args...), callee)
}

// parseArguments parses a parenthesized argument list with the current
// token on the opening paren.
func (p *Parser) parseArguments() ([]ast.Node, bool) {
	defer p.allowIn()()
	args := []ast.Node{}
	for !p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		arg := p.parseAssignment()
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if !p.peekTokenIs(token.RPAREN) && !p.expectPeek(token.COMMA) {
			return nil, false
		}
	}
	p.nextToken()
	return args, true
}

func (p *Parser) parseNew() ast.Node {
	start := p.curToken
	p.nextToken()
	callee := p.parseNode(CALL)
	if callee == nil {
		return nil
	}
	expr := &ast.NewExpression{Callee: callee, Arguments: []ast.Node{}}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		args, ok := p.parseArguments()
		if !ok {
			return nil
		}
		expr.Arguments = args
	}
	return p.finish(expr, start)
}

func (p *Parser) parseMember(object ast.Node) ast.Node {
	p.nextToken()
	if !isIdentifierName(p.curToken) {
		return p.unexpected(p.curToken)
	}
	property := p.finish(ast.NewIdentifier(p.curToken.Literal), p.curToken)
	return p.finishFrom(&ast.MemberExpression{Object: object, Property: property}, object)
}

func (p *Parser) parseComputedMember(object ast.Node) ast.Node {
	defer p.allowIn()()
	p.nextToken()
	property := p.parseExpression()
	if property == nil || !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return p.finishFrom(ast.NewComputedMember(object, property), object)
}

func (p *Parser) parseArray() ast.Node {
	start := p.curToken
	defer p.allowIn()()
	arr := &ast.ArrayExpression{Elements: []ast.Node{}}
	for !p.peekTokenIs(token.RBRACKET) {
		p.nextToken()
		if p.curTokenIs(token.COMMA) {
			arr.Elements = append(arr.Elements, nil)
			continue
		}
		el := p.parseAssignment()
		if el == nil {
			return nil
		}
		arr.Elements = append(arr.Elements, el)
		if !p.peekTokenIs(token.RBRACKET) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}
	p.nextToken()
	return p.finish(arr, start)
}

func (p *Parser) parseObject() ast.Node {
	start := p.curToken
	defer p.allowIn()()
	obj := &ast.ObjectExpression{Properties: []ast.Node{}}
	for !p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		prop := p.parseProperty()
		if prop == nil {
			return nil
		}
		obj.Properties = append(obj.Properties, prop)
		if !p.peekTokenIs(token.RBRACE) && !p.expectPeek(token.COMMA) {
			return nil
		}
	}
	p.nextToken()
	return p.finish(obj, start)
}

// parseProperty parses one object member: `key: value`, `[key]: value`,
// shorthand `key` or method shorthand `key() {}`.
func (p *Parser) parseProperty() ast.Node {
	start := p.curToken
	prop := &ast.ObjectProperty{}
	switch {
	case p.curTokenIs(token.LBRACKET):
		p.nextToken()
		if prop.Key = p.parseAssignment(); prop.Key == nil || !p.expectPeek(token.RBRACKET) {
			return nil
		}
		prop.Computed = true
	case p.curTokenIs(token.STRING):
		prop.Key = p.parseString()
	case p.curTokenIs(token.NUMBER):
		if prop.Key = p.parseNumber(); prop.Key == nil {
			return nil
		}
	case isIdentifierName(p.curToken):
		prop.Key = p.parseIdentifier()
	default:
		return p.unexpected(p.curToken)
	}

	switch {
	case p.peekTokenIs(token.COLON):
		p.nextToken()
		p.nextToken()
		if prop.Value = p.parseAssignment(); prop.Value == nil {
			return nil
		}
	case p.peekTokenIs(token.LPAREN):
		fnStart := p.curToken
		fn := &ast.FunctionExpression{}
		if !p.parseFunctionRest(&fn.Params, &fn.Body) {
			return nil
		}
		prop.Value = p.finish(fn, fnStart)
	case start.Type == token.IDENT && !prop.Computed:
		prop.Value = ast.Clone(prop.Key)
	default:
		return p.unexpected(p.peekToken)
	}
	return p.finish(prop, start)
}

func (p *Parser) parseFunctionExpression() ast.Node {
	return p.parseFunction(false)
}

// parseFunction parses a function declaration or expression with the
// current token on the `function` keyword.
func (p *Parser) parseFunction(declaration bool) ast.Node {
	start := p.curToken
	var id ast.Node
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		id = p.parseIdentifier()
	} else if declaration {
		p.expectPeek(token.IDENT)
		return nil
	}
	var params []ast.Node
	var body ast.Node
	if !p.parseFunctionRest(&params, &body) {
		return nil
	}
	if declaration {
		return p.finish(&ast.FunctionDeclaration{ID: id, Params: params, Body: body}, start)
	}
	return p.finish(&ast.FunctionExpression{ID: id, Params: params, Body: body}, start)
}

// parseFunctionRest parses the parameter list and body that follow the
// current token.
func (p *Parser) parseFunctionRest(params *[]ast.Node, body *ast.Node) bool {
	if !p.expectPeek(token.LPAREN) {
		return false
	}
	*params = []ast.Node{}
	for !p.peekTokenIs(token.RPAREN) {
		if !p.expectPeek(token.IDENT) {
			return false
		}
		*params = append(*params, p.parseIdentifier())
		if !p.peekTokenIs(token.RPAREN) && !p.expectPeek(token.COMMA) {
			return false
		}
	}
	p.nextToken()
	if !p.expectPeek(token.LBRACE) {
		return false
	}

	defer p.allowIn()()
	savedLoop := p.loopDepth
	p.functionDepth++
	p.loopDepth = 0
	defer func() {
		p.functionDepth--
		p.loopDepth = savedLoop
	}()
	*body = p.parseBlock()
	return *body != nil
}

func isAssignable(n ast.Node) bool {
	switch n.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		return true
	}
	return false
}

// isIdentifierName reports whether the token can be used as a property
// name, which includes reserved words.
func isIdentifierName(t token.Token) bool {
	if t.Type == token.IDENT {
		return true
	}
	return token.IsKeyword(t.Literal) && token.LookupIdentifier(t.Literal) == t.Type
}
