package codeframe

import (
	"os"
	"strings"

	"github.com/deepnoodle-ai/morph/internal/lexer"
	"github.com/deepnoodle-ai/morph/internal/token"
	"github.com/deepnoodle-ai/wonton/color"
)

const reset = "\x1b[0m"

type tokenKind int

const (
	kindName tokenKind = iota
	kindString
	kindPunctuator
	kindCurly
	kindParens
	kindSquare
	kindKeyword
	kindNumber
	kindComment
)

var styles = map[tokenKind]func(string) string{
	kindString:     paint(color.Red),
	kindPunctuator: color.ApplyBold,
	kindCurly:      paint(color.Green),
	kindParens:     func(s string) string { return color.ApplyBold(color.Colorize(color.BrightBlue, s)) },
	kindSquare:     paint(color.Yellow),
	kindKeyword:    paint(color.Cyan),
	kindNumber:     paint(color.Magenta),
	kindComment:    paint(color.BrightBlack),
}

func paint(c color.Color) func(string) string {
	return func(s string) string { return c.Apply(s) }
}

// Supported reports whether highlighted output should be produced.
func Supported() bool {
	return color.Enabled && color.ShouldColorize(os.Stdout)
}

func kindOf(tok token.Token) tokenKind {
	switch tok.Type {
	case token.IDENT:
		if token.IsReservedWord(tok.Literal) {
			return kindKeyword
		}
		return kindName
	case token.STRING, token.TEMPLATE:
		return kindString
	case token.NUMBER:
		return kindNumber
	case token.LBRACE, token.RBRACE:
		return kindCurly
	case token.LPAREN, token.RPAREN:
		return kindParens
	case token.LBRACKET, token.RBRACKET:
		return kindSquare
	}
	if token.IsKeyword(tok.Literal) {
		return kindKeyword
	}
	return kindPunctuator
}

// colorize applies style to each line of s separately so that a frame
// split on newlines keeps its colors balanced.
func colorize(style func(string) string, s string) string {
	parts := newline.Split(s, -1)
	for i, p := range parts {
		if p != "" {
			parts[i] = style(p)
		}
	}
	return strings.Join(parts, "\n")
}

// Highlight returns code with ANSI colors applied per token. Text the lexer
// cannot tokenize is left as is.
func Highlight(code string) string {
	l := lexer.New(code)
	var b strings.Builder
	offset := 0
	copyGap := func(end int) {
		for _, c := range l.TakeComments() {
			if c.Start.Char < offset {
				continue
			}
			b.WriteString(code[offset:c.Start.Char])
			b.WriteString(colorize(styles[kindComment], code[c.Start.Char:c.End.Char]))
			offset = c.End.Char
		}
		if end > offset {
			b.WriteString(code[offset:end])
			offset = end
		}
	}
	for {
		tok, err := l.Next()
		if err != nil {
			copyGap(tok.StartPosition.Char)
			b.WriteString(code[offset:])
			return b.String()
		}
		copyGap(tok.StartPosition.Char)
		if tok.Type == token.EOF {
			b.WriteString(code[offset:])
			return b.String()
		}
		text := code[tok.StartPosition.Char:tok.EndPosition.Char]
		if style, ok := styles[kindOf(tok)]; ok {
			b.WriteString(colorize(style, text))
		} else {
			b.WriteString(text)
		}
		offset = tok.EndPosition.Char
	}
}
