package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/internal/lexer"
	"github.com/deepnoodle-ai/morph/internal/token"
)

func (p *Parser) parseNumber() ast.Node {
	tok := p.curToken
	value, err := parseNumericLiteral(tok.Literal)
	if err != nil {
		return p.fail(tok, errors.E1008, "Invalid number")
	}
	return p.finish(&ast.NumericLiteral{Value: value, Raw: tok.Literal}, tok)
}

func parseNumericLiteral(lit string) (float64, error) {
	if len(lit) > 2 && lit[0] == '0' && (lit[1] == 'x' || lit[1] == 'X') {
		v, err := strconv.ParseUint(lit[2:], 16, 64)
		if err != nil {
			if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
				return math.Inf(1), nil
			}
			return 0, err
		}
		return float64(v), nil
	}
	return strconv.ParseFloat(lit, 64)
}

func (p *Parser) parseTaggedTemplate(tag ast.Node) ast.Node {
	quasi := p.parseTemplate()
	if quasi == nil {
		return nil
	}
	return p.finishFrom(&ast.TaggedTemplateExpression{Tag: tag, Quasi: quasi}, tag)
}

// templatePart is one piece of a template literal's raw text: either a
// quasi or the source of a ${} substitution.
type templatePart struct {
	text  string
	start token.LineCol
	end   token.LineCol
	expr  bool
}

// parseTemplate splits the raw template text into quasis and substitutions.
// Each substitution is parsed by a child parser and its locations are
// shifted to where the substitution sits in the file.
func (p *Parser) parseTemplate() ast.Node {
	tok := p.curToken
	origin := token.LineCol{Line: tok.StartPosition.LineNumber(), Column: tok.StartPosition.Column + 1}
	parts := splitTemplate(tok.Literal, origin)

	tpl := &ast.TemplateLiteral{Quasis: []ast.Node{}, Expressions: []ast.Node{}}
	for i, part := range parts {
		if part.expr {
			expr := p.parseSubstitution(tok, part)
			if expr == nil {
				return nil
			}
			tpl.Expressions = append(tpl.Expressions, expr)
			continue
		}
		cooked, err := lexer.Unescape(part.text)
		if err != nil {
			return p.fail(tok, errors.E1010, "Invalid escape sequence in template")
		}
		el := &ast.TemplateElement{Raw: part.text, Cooked: cooked, Tail: i == len(parts)-1}
		el.Loc = &token.Loc{Start: part.start, End: part.end}
		tpl.Quasis = append(tpl.Quasis, el)
	}
	return p.finish(tpl, tok)
}

func (p *Parser) parseSubstitution(tok token.Token, part templatePart) ast.Node {
	child := New(lexer.New(part.text),
		WithFilename(p.filename),
		WithMaxDepth(p.maxDepth-p.depth),
		WithSourceType(p.sourceType))
	var expr ast.Node
	if child.err == nil {
		expr = child.parseExpression()
		if expr != nil && !child.peekTokenIs(token.EOF) {
			child.unexpected(child.peekToken)
		}
	}
	if child.err != nil {
		if p.err == nil {
			p.err = relocateError(child.err, part.start)
		}
		return nil
	}
	if expr == nil {
		return p.fail(tok, errors.E1004, "Expected expression in template substitution")
	}
	seen := map[*token.Loc]bool{}
	for n := range ast.Preorder(expr) {
		m := n.Meta()
		shiftLoc(m.Loc, part.start, seen)
		for i := range m.LeadingComments {
			shiftLoc(m.LeadingComments[i].Loc, part.start, seen)
		}
		for i := range m.TrailingComments {
			shiftLoc(m.TrailingComments[i].Loc, part.start, seen)
		}
	}
	return expr
}

func shiftLoc(loc *token.Loc, base token.LineCol, seen map[*token.Loc]bool) {
	if loc == nil || seen[loc] {
		return
	}
	seen[loc] = true
	loc.Start = shiftLineCol(loc.Start, base)
	loc.End = shiftLineCol(loc.End, base)
}

func shiftLineCol(lc token.LineCol, base token.LineCol) token.LineCol {
	if lc.Line == 1 {
		lc.Column += base.Column
	}
	lc.Line += base.Line - 1
	return lc
}

// relocateError moves a syntax error raised inside a substitution to its
// position in the enclosing file.
func relocateError(err error, base token.LineCol) error {
	se, ok := err.(*errors.LocatedSyntaxError)
	if !ok || se.Loc == nil {
		return err
	}
	loc := &token.Loc{Start: shiftLineCol(se.Loc.Start, base), End: shiftLineCol(se.Loc.End, base)}
	msg := se.Message
	if i := strings.LastIndex(msg, " ("); i >= 0 {
		msg = msg[:i]
	}
	out := errors.NewSyntaxError(se.Code, loc, "%s (%s)", msg, loc.Start)
	out.SourceLine = se.SourceLine
	return out
}

// splitTemplate breaks raw template text into alternating quasis and
// substitutions. The result always starts and ends with a quasi.
func splitTemplate(raw string, origin token.LineCol) []templatePart {
	var parts []templatePart
	pos := origin
	quasiStart, quasiPos := 0, pos
	for i := 0; i < len(raw); {
		switch {
		case raw[i] == '\\' && i+1 < len(raw):
			pos = advanceLineCol(pos, raw[i:i+2])
			i += 2
		case raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{':
			parts = append(parts, templatePart{text: raw[quasiStart:i], start: quasiPos, end: pos})
			exprStart := i + 2
			exprPos := advanceLineCol(pos, "${")
			end := matchBrace(raw, exprStart)
			parts = append(parts, templatePart{
				text:  raw[exprStart:end],
				start: exprPos,
				end:   advanceLineCol(exprPos, raw[exprStart:end]),
				expr:  true,
			})
			next := min(end+1, len(raw))
			pos = advanceLineCol(pos, raw[i:next])
			i = next
			quasiStart, quasiPos = i, pos
		default:
			pos = advanceLineCol(pos, raw[i:i+1])
			i++
		}
	}
	return append(parts, templatePart{text: raw[quasiStart:], start: quasiPos, end: pos})
}

// matchBrace returns the index of the `}` closing a substitution whose body
// starts at i, skipping nested braces, strings and templates.
func matchBrace(raw string, i int) int {
	depth := 0
	for i < len(raw) {
		switch ch := raw[i]; ch {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		case '"', '\'':
			i = skipString(raw, i)
			continue
		case '`':
			i = skipTemplate(raw, i)
			continue
		}
		i++
	}
	return len(raw)
}

// skipString returns the index just past the quoted string starting at i.
func skipString(raw string, i int) int {
	quote := raw[i]
	for i++; i < len(raw); i++ {
		switch raw[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(raw)
}

// skipTemplate returns the index just past the nested template starting at i.
func skipTemplate(raw string, i int) int {
	for i++; i < len(raw); i++ {
		switch {
		case raw[i] == '\\':
			i++
		case raw[i] == '`':
			return i + 1
		case raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{':
			i = matchBrace(raw, i+2)
		}
	}
	return len(raw)
}

func advanceLineCol(lc token.LineCol, text string) token.LineCol {
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lc.Line++
			lc.Column = 0
			continue
		}
		lc.Column++
	}
	return lc
}
