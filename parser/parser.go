// Package parser is used to generate the abstract syntax tree (AST) for a
// program.
//
// A parser is created by calling New() with a lexer as input. The parser
// should then be used only once, by calling parser.Parse() to produce the
// AST. Parsing stops at the first syntax error, which is returned as an
// *errors.LocatedSyntaxError.
package parser

import (
	"context"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/internal/lexer"
	"github.com/deepnoodle-ai/morph/internal/token"
)

type (
	prefixParseFn func() ast.Node
	infixParseFn  func(ast.Node) ast.Node
)

// Source types accepted by WithSourceType.
const (
	SourceModule = "module"
	SourceScript = "script"
)

// DefaultMaxDepth is the default maximum nesting depth for parsing.
const DefaultMaxDepth = 500

// Parse the provided input as source code and return the AST. This is
// shorthand way to create a Lexer and Parser and then call Parse on that.
func Parse(ctx context.Context, input string, options ...Option) (*ast.Program, error) {
	// Extract filename from options before creating the parser, so that lexer
	// errors in the first tokens have proper location context.
	var filename string
	for _, opt := range options {
		var probe Parser
		opt(&probe)
		if probe.filename != "" {
			filename = probe.filename
			break
		}
	}

	l := lexer.New(input)
	if filename != "" {
		l.SetFilename(filename)
	}

	p := New(l, options...)
	return p.Parse(ctx)
}

// Option is a configuration function for a Parser.
type Option func(*Parser)

// WithFilename sets the file name recorded in positions.
func WithFilename(filename string) Option {
	return func(p *Parser) {
		p.filename = filename
	}
}

// WithMaxDepth sets the maximum nesting depth for the parser.
// This prevents stack overflow on deeply nested input.
// The default is 500.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		p.maxDepth = depth
	}
}

// WithSourceType selects "module" (the default) or "script". Import
// declarations are only accepted in modules.
func WithSourceType(sourceType string) Option {
	return func(p *Parser) {
		p.sourceType = sourceType
	}
}

// WithAllowReturnOutsideFunction permits top-level return statements.
func WithAllowReturnOutsideFunction(allow bool) Option {
	return func(p *Parser) {
		p.allowReturnOutsideFunction = allow
	}
}

// Parser object
type Parser struct {
	// the Context supplied in the Parse() call
	ctx context.Context

	// l is our lexer
	l *lexer.Lexer

	// prevToken holds the previous token, which we already processed.
	prevToken token.Token

	// curToken holds the current token from the lexer.
	curToken token.Token

	// peekToken holds the next token from the lexer.
	peekToken token.Token

	// comments that precede curToken and peekToken
	curComments  []lexer.Comment
	peekComments []lexer.Comment

	// the first error encountered
	err error

	// prefixParseFns holds a map of parsing methods for
	// prefix-based syntax.
	prefixParseFns map[token.Type]prefixParseFn

	// infixParseFns holds a map of parsing methods for
	// infix-based syntax.
	infixParseFns map[token.Type]infixParseFn

	// noIn is set while parsing the head of a for statement, where `in`
	// starts a for-in loop instead of a binary expression.
	noIn bool

	functionDepth int
	loopDepth     int

	// The filename of the input
	filename string

	sourceType                 string
	allowReturnOutsideFunction bool

	// Current recursion depth
	depth int

	// Maximum allowed recursion depth
	maxDepth int
}

// New returns a Parser for the program provided by the given Lexer.
func New(l *lexer.Lexer, options ...Option) *Parser {
	// Create the parser and apply any provided options
	p := &Parser{
		l:              l,
		prefixParseFns: map[token.Type]prefixParseFn{},
		infixParseFns:  map[token.Type]infixParseFn{},
		maxDepth:       DefaultMaxDepth,
		sourceType:     SourceModule,
	}
	for _, opt := range options {
		opt(p)
	}
	if p.filename != "" && l.Filename() == "" {
		l.SetFilename(p.filename)
	}

	// Prime the token pump
	p.nextToken() // makes curToken=<empty>, peekToken=token[0]
	p.nextToken() // makes curToken=token[0], peekToken=token[1]

	// Register prefix-functions
	p.registerPrefix(token.BANG, p.parseUnary)
	p.registerPrefix(token.DELETE, p.parseUnary)
	p.registerPrefix(token.FALSE, p.parseBoolean)
	p.registerPrefix(token.FUNCTION, p.parseFunctionExpression)
	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.LBRACE, p.parseObject)
	p.registerPrefix(token.LBRACKET, p.parseArray)
	p.registerPrefix(token.LPAREN, p.parseGrouped)
	p.registerPrefix(token.MINUS, p.parseUnary)
	p.registerPrefix(token.MINUS_MINUS, p.parseUnary)
	p.registerPrefix(token.NEW, p.parseNew)
	p.registerPrefix(token.NULL, p.parseNull)
	p.registerPrefix(token.NUMBER, p.parseNumber)
	p.registerPrefix(token.PLUS, p.parseUnary)
	p.registerPrefix(token.PLUS_PLUS, p.parseUnary)
	p.registerPrefix(token.STRING, p.parseString)
	p.registerPrefix(token.TEMPLATE, p.parseTemplate)
	p.registerPrefix(token.THIS, p.parseThis)
	p.registerPrefix(token.TILDE, p.parseUnary)
	p.registerPrefix(token.TRUE, p.parseBoolean)
	p.registerPrefix(token.TYPEOF, p.parseUnary)
	p.registerPrefix(token.VOID, p.parseUnary)

	// Register infix functions
	p.registerInfix(token.AND, p.parseBinary)
	p.registerInfix(token.ASSIGN, p.parseAssign)
	p.registerInfix(token.ASTERISK, p.parseBinary)
	p.registerInfix(token.ASTERISK_EQUALS, p.parseAssign)
	p.registerInfix(token.BITAND, p.parseBinary)
	p.registerInfix(token.BITOR, p.parseBinary)
	p.registerInfix(token.CARET, p.parseBinary)
	p.registerInfix(token.EQ, p.parseBinary)
	p.registerInfix(token.GT, p.parseBinary)
	p.registerInfix(token.GT_EQUALS, p.parseBinary)
	p.registerInfix(token.IN, p.parseBinary)
	p.registerInfix(token.INSTANCEOF, p.parseBinary)
	p.registerInfix(token.LBRACKET, p.parseComputedMember)
	p.registerInfix(token.LPAREN, p.parseCall)
	p.registerInfix(token.LT, p.parseBinary)
	p.registerInfix(token.LT_EQUALS, p.parseBinary)
	p.registerInfix(token.MINUS, p.parseBinary)
	p.registerInfix(token.MINUS_EQUALS, p.parseAssign)
	p.registerInfix(token.MINUS_MINUS, p.parsePostfix)
	p.registerInfix(token.MOD, p.parseBinary)
	p.registerInfix(token.NOT_EQ, p.parseBinary)
	p.registerInfix(token.OR, p.parseBinary)
	p.registerInfix(token.PERIOD, p.parseMember)
	p.registerInfix(token.PLUS, p.parseBinary)
	p.registerInfix(token.PLUS_EQUALS, p.parseAssign)
	p.registerInfix(token.PLUS_PLUS, p.parsePostfix)
	p.registerInfix(token.QUESTION, p.parseConditional)
	p.registerInfix(token.SLASH, p.parseBinary)
	p.registerInfix(token.SLASH_EQUALS, p.parseAssign)
	p.registerInfix(token.STRICT_EQ, p.parseBinary)
	p.registerInfix(token.STRICT_NOT_EQ, p.parseBinary)
	p.registerInfix(token.TEMPLATE, p.parseTaggedTemplate)

	return p
}

// nextToken moves to the next token from the lexer, updating all of
// prevToken, curToken, and peekToken.
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.curComments = p.peekComments
	tok, err := p.l.Next()
	p.peekToken = tok
	p.peekComments = p.l.TakeComments()
	if err != nil && p.err == nil {
		// The lexer encountered an error. We consider all lexer errors
		// syntax errors and parsing will now be considered broken.
		p.err = NewSyntaxError(ErrorOpts{
			Code:          lexerErrorCode(err),
			Cause:         err,
			File:          p.l.Filename(),
			StartPosition: tok.StartPosition,
			EndPosition:   tok.EndPosition,
			SourceCode:    p.l.GetLineText(tok),
		})
	}
}

// Parse the program that is provided via the lexer.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	p.ctx = ctx
	program := &ast.Program{Body: []ast.Node{}}
	for p.err == nil && !p.curTokenIs(token.EOF) {
		// Check for context timeout
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		stmt := p.parseStatement()
		if stmt == nil {
			break
		}
		program.Body = append(program.Body, stmt)
		p.nextToken()
	}
	if p.err != nil {
		return nil, p.err
	}
	// Comments after the last statement
	if comments := p.takeComments(); len(comments) > 0 {
		if n := len(program.Body); n > 0 {
			last := program.Body[n-1].Meta()
			last.TrailingComments = append(last.TrailingComments, comments...)
		} else {
			program.LeadingComments = comments
		}
	}
	program.Loc = token.LocFrom(token.NoPos, p.curToken.EndPosition)
	return program, nil
}

// registerPrefix registers a function for handling a prefix-based statement.
func (p *Parser) registerPrefix(tokenType token.Type, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers a function for handling an infix-based statement.
func (p *Parser) registerInfix(tokenType token.Type, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// fail records a syntax error at the given token. It always returns nil so
// callers can write `return p.fail(...)`.
func (p *Parser) fail(t token.Token, code errors.ErrorCode, msg string) ast.Node {
	if p.err == nil {
		p.err = NewSyntaxError(ErrorOpts{
			Code:          code,
			Message:       msg,
			File:          p.l.Filename(),
			StartPosition: t.StartPosition,
			EndPosition:   t.EndPosition,
			SourceCode:    p.l.GetLineText(t),
		})
	}
	return nil
}

func (p *Parser) unexpected(t token.Token) ast.Node {
	if t.Type == token.EOF {
		return p.fail(t, errors.E1007, "Unexpected end of input")
	}
	return p.fail(t, errors.E1001, "Unexpected token")
}

// expectPeek advances if the next token has the given type and records an
// error otherwise.
func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	if p.peekTokenIs(token.EOF) {
		p.unexpected(p.peekToken)
		return false
	}
	p.fail(p.peekToken, errors.E1001, "Unexpected token, expected "+tokenTypeDescription(t))
	return false
}

// expectPeekWord advances if the next token is the identifier word, as used
// for contextual keywords such as `from` and `as`.
func (p *Parser) expectPeekWord(word string) bool {
	if p.peekTokenIs(token.IDENT) && p.peekToken.Literal == word {
		p.nextToken()
		return true
	}
	p.fail(p.peekToken, errors.E1001, "Unexpected token, expected "+word)
	return false
}

// semicolon consumes an explicit semicolon or accepts an automatic one
// before `}`, end of input or a line break.
func (p *Parser) semicolon() bool {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return true
	}
	if p.peekTokenIs(token.RBRACE) || p.peekTokenIs(token.EOF) || p.peekToken.NewlineBefore {
		return true
	}
	p.unexpected(p.peekToken)
	return false
}

// allowIn clears the for-head restriction on `in` and returns a function
// that restores it.
func (p *Parser) allowIn() func() {
	saved := p.noIn
	p.noIn = false
	return func() { p.noIn = saved }
}

// takeComments returns the comments preceding the current token and clears
// them so they are attached only once.
func (p *Parser) takeComments() []ast.Comment {
	if len(p.curComments) == 0 {
		return nil
	}
	out := make([]ast.Comment, 0, len(p.curComments))
	for _, c := range p.curComments {
		out = append(out, ast.Comment{
			Block: c.Block,
			Value: c.Value,
			Loc:   token.LocFrom(c.Start, c.End),
		})
	}
	p.curComments = nil
	return out
}

// finish sets the node's location from the start token to the current token.
func (p *Parser) finish(n ast.Node, start token.Token) ast.Node {
	n.Meta().Loc = token.LocFrom(start.StartPosition, p.curToken.EndPosition)
	return n
}

// finishFrom sets the node's location from the start of the given node to
// the current token.
func (p *Parser) finishFrom(n ast.Node, first ast.Node) ast.Node {
	loc := token.LocFrom(token.NoPos, p.curToken.EndPosition)
	if from := first.Meta().Loc; from != nil {
		loc.Start = from.Start
	}
	n.Meta().Loc = loc
	return n
}

// curTokenIs returns true if the current token has the given type.
func (p *Parser) curTokenIs(t token.Type) bool {
	return p.curToken.Type == t
}

// peekTokenIs returns true if the next token has the given type.
func (p *Parser) peekTokenIs(t token.Type) bool {
	return p.peekToken.Type == t
}

// peekPrecedence returns the precedence of the next token.
func (p *Parser) peekPrecedence() int {
	t := p.peekToken
	if p.noIn && t.Type == token.IN {
		return LOWEST
	}
	// A postfix operator must be on the same line as its operand.
	if (t.Type == token.PLUS_PLUS || t.Type == token.MINUS_MINUS) && t.NewlineBefore {
		return LOWEST
	}
	if pr, ok := precedences[t.Type]; ok {
		return pr
	}
	return LOWEST
}

// curPrecedence returns the precedence of the current token.
func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}
