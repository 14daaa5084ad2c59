// Package generator prints a syntax tree back to source code and, on
// request, records a source map of the output.
package generator

import (
	"bytes"
	"strings"

	"github.com/deepnoodle-ai/morph/ast"
	"github.com/deepnoodle-ai/morph/errors"
	"github.com/deepnoodle-ai/morph/internal/lexer"
	"github.com/deepnoodle-ai/morph/internal/token"
	"github.com/deepnoodle-ai/morph/sourcemap"
)

// Result is the generated code and, when source maps are enabled, its map.
type Result struct {
	Code string
	Map  *sourcemap.Map
}

// Option is a configuration function for Generate.
type Option func(*config)

type config struct {
	compact         bool
	comments        bool
	quotes          string
	sourceMaps      bool
	sourceFileName  string
	sourceMapTarget string
	sourceRoot      string
}

// WithCompact prints the whole tree without optional whitespace.
func WithCompact(compact bool) Option {
	return func(c *config) {
		c.compact = compact
	}
}

// WithComments controls whether comments are printed. They are by default.
func WithComments(comments bool) Option {
	return func(c *config) {
		c.comments = comments
	}
}

// WithQuotes forces "single" or "double" quotes for string literals. By
// default the most common delimiter in the original code is used.
func WithQuotes(quotes string) Option {
	return func(c *config) {
		c.quotes = quotes
	}
}

// WithSourceMaps enables source map output. sourceFileName is recorded as
// the source of every mapping and sourceMapTarget as the map's file.
func WithSourceMaps(sourceFileName, sourceMapTarget, sourceRoot string) Option {
	return func(c *config) {
		c.sourceMaps = true
		c.sourceFileName = sourceFileName
		c.sourceMapTarget = sourceMapTarget
		c.sourceRoot = sourceRoot
	}
}

// Generate prints the tree rooted at node. code is the original source,
// used to pick a quote style and embedded in the source map.
func Generate(node ast.Node, code string, options ...Option) (*Result, error) {
	cfg := config{comments: true}
	for _, opt := range options {
		opt(&cfg)
	}
	if ast.IsNil(node) {
		return nil, errors.NewOutputError(errors.E3002, "cannot generate code for a nil node")
	}
	p := &printer{
		compact:  cfg.compact,
		comments: cfg.comments,
		quote:    '"',
		line:     1,
	}
	switch cfg.quotes {
	case "single":
		p.quote = '\''
	case "double":
	default:
		p.quote = detectQuote(code)
	}
	if cfg.sourceMaps {
		p.maps = sourcemap.NewGenerator(cfg.sourceMapTarget, cfg.sourceRoot)
		p.source = cfg.sourceFileName
		if code != "" {
			p.maps.SetSourceContent(cfg.sourceFileName, code)
		}
	}

	p.print(node)
	if p.err != nil {
		return nil, p.err
	}
	result := &Result{Code: strings.TrimRight(p.buf.String(), "\n")}
	if p.maps != nil {
		result.Map = p.maps.ToMap()
	}
	return result, nil
}

// detectQuote returns the delimiter used by the majority of the first
// three string literals in code, preferring double quotes.
func detectQuote(code string) byte {
	if code == "" {
		return '"'
	}
	l := lexer.New(code)
	single, double, checked := 0, 0, 0
	for checked < 3 {
		tok, err := l.Next()
		if err != nil || tok.Type == token.EOF {
			break
		}
		if tok.Type != token.STRING {
			continue
		}
		if code[tok.StartPosition.Char] == '\'' {
			single++
		} else {
			double++
		}
		checked++
	}
	if single > double {
		return '\''
	}
	return '"'
}

// printer holds state for printing a tree.
type printer struct {
	buf      bytes.Buffer
	indent   int
	compact  bool
	comments bool
	quote    byte

	// output position: 1-based line, 0-based column
	line int
	col  int

	maps   *sourcemap.Generator
	source string
	err    error
}

func (p *printer) write(s string) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			p.line++
			p.col = 0
		} else {
			p.col++
		}
	}
	p.buf.WriteString(s)
}

// space writes a single space unless printing compactly.
func (p *printer) space() {
	if !p.compact {
		p.write(" ")
	}
}

// newline ends the current line unless printing compactly.
func (p *printer) newline() {
	if !p.compact {
		p.write("\n")
	}
}

func (p *printer) writeIndent() {
	if !p.compact {
		p.write(strings.Repeat("  ", p.indent))
	}
}

// lastByte returns the last byte written, or 0.
func (p *printer) lastByte() byte {
	b := p.buf.Bytes()
	if len(b) == 0 {
		return 0
	}
	return b[len(b)-1]
}

// mark records a source map mapping for the start of n.
func (p *printer) mark(n ast.Node) {
	if p.maps == nil {
		return
	}
	loc := n.Meta().Loc
	if loc == nil {
		return
	}
	m := sourcemap.Mapping{
		Generated: sourcemap.Position{Line: p.line, Column: p.col},
		Original:  sourcemap.Position{Line: loc.Start.Line, Column: loc.Start.Column},
		Source:    p.source,
		HasSource: true,
	}
	if id, ok := n.(*ast.Identifier); ok {
		m.Name = id.Name
	}
	p.maps.AddMapping(m)
}

// print prints any node with its comments.
func (p *printer) print(n ast.Node) {
	if ast.IsNil(n) || p.err != nil {
		return
	}
	meta := n.Meta()
	if meta.Compact && !p.compact {
		p.compact = true
		defer func() { p.compact = false }()
	}
	statement := ast.IsStatement(n) || n.Type() == ast.TypeProgram
	p.printComments(meta.LeadingComments, statement)
	p.mark(n)
	if statement {
		p.printStatement(n)
	} else {
		p.printExpression(n)
	}
	if len(meta.TrailingComments) > 0 && p.comments {
		for _, c := range meta.TrailingComments {
			if statement && startsLater(c, meta.Loc) && !p.compact {
				p.write("\n")
				p.writeIndent()
			} else if p.lastByte() != '\n' {
				p.write(" ")
			}
			p.printComment(c)
		}
	}
}

// startsLater reports whether the comment starts on a line after loc ends.
func startsLater(c ast.Comment, loc *token.Loc) bool {
	return c.Loc != nil && loc != nil && c.Loc.Start.Line > loc.End.Line
}

// printComments prints leading comments. Comments before a statement go on
// their own lines; comments before an expression stay inline.
func (p *printer) printComments(comments []ast.Comment, ownLine bool) {
	if !p.comments {
		return
	}
	for _, c := range comments {
		p.printComment(c)
		if ownLine && !p.compact {
			p.write("\n")
			p.writeIndent()
		} else if c.Block {
			p.write(" ")
		}
	}
}

func (p *printer) printComment(c ast.Comment) {
	if c.Block {
		p.write("/*" + c.Value + "*/")
		return
	}
	p.write("//" + strings.TrimRight(c.Value, "\r"))
	if p.compact {
		// A line comment always ends its line.
		p.write("\n")
	}
}

func (p *printer) fail(n ast.Node) {
	if p.err == nil {
		p.err = errors.NewOutputError(errors.E3002, "cannot generate code for node type %s", n.Type())
	}
}
