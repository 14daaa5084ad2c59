package lexer

import (
	"testing"

	"github.com/deepnoodle-ai/morph/internal/token"
	"github.com/deepnoodle-ai/wonton/assert"
)

func TestNextToken(t *testing.T) {
	input := `var a = null;
function f(x) { return x === 1.5e3 || !x; }`

	tests := []struct {
		expectedType    token.Type
		expectedLiteral string
	}{
		{token.VAR, "var"},
		{token.IDENT, "a"},
		{token.ASSIGN, "="},
		{token.NULL, "null"},
		{token.SEMICOLON, ";"},
		{token.FUNCTION, "function"},
		{token.IDENT, "f"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.RPAREN, ")"},
		{token.LBRACE, "{"},
		{token.RETURN, "return"},
		{token.IDENT, "x"},
		{token.STRICT_EQ, "==="},
		{token.NUMBER, "1.5e3"},
		{token.OR, "||"},
		{token.BANG, "!"},
		{token.IDENT, "x"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}
	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		assert.Nil(t, err)
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong, expected=%q, got=%q", i, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - Literal wrong, expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNewlineBefore(t *testing.T) {
	l := New("a\nb c")
	a, _ := l.Next()
	b, _ := l.Next()
	c, _ := l.Next()
	assert.False(t, a.NewlineBefore)
	assert.True(t, b.NewlineBefore)
	assert.False(t, c.NewlineBefore)
	assert.Equal(t, b.StartPosition.Line, 1)
	assert.Equal(t, b.StartPosition.Column, 0)
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`'it\'s'`, "it's"},
		{`"a\nb"`, "a\nb"},
		{`"\x41B\u{43}"`, "ABC"},
	}
	for _, tt := range tests {
		tok, err := New(tt.input).Next()
		assert.Nil(t, err)
		assert.Equal(t, tok.Type, token.STRING)
		assert.Equal(t, tok.Literal, tt.expected)
	}
}

func TestUnterminatedString(t *testing.T) {
	tok, err := New(`"abc`).Next()
	assert.NotNil(t, err)
	assert.Equal(t, tok.Type, token.ILLEGAL)
	assert.Contains(t, err.Error(), "unterminated string")
}

func TestTemplate(t *testing.T) {
	tok, err := New("`a${ {b: '}'}.b }c`").Next()
	assert.Nil(t, err)
	assert.Equal(t, tok.Type, token.TEMPLATE)
	assert.Equal(t, tok.Literal, "a${ {b: '}'}.b }c")
}

func TestComments(t *testing.T) {
	l := New("// lead\n/* block */ x // tail")
	tok, err := l.Next()
	assert.Nil(t, err)
	assert.Equal(t, tok.Literal, "x")
	pending := l.TakeComments()
	assert.Len(t, pending, 2)
	assert.Equal(t, pending[0].Value, " lead")
	assert.False(t, pending[0].Block)
	assert.Equal(t, pending[1].Value, " block ")
	assert.True(t, pending[1].Block)

	tok, err = l.Next()
	assert.Nil(t, err)
	assert.Equal(t, tok.Type, token.EOF)
	assert.Len(t, l.TakeComments(), 1)
	assert.Len(t, l.Comments(), 3)
}

func TestSaveRestore(t *testing.T) {
	l := New("a b c")
	l.Next()
	state := l.SaveState()
	b, _ := l.Next()
	l.RestoreState(state)
	again, _ := l.Next()
	assert.Equal(t, again, b)
}

func TestGetLineText(t *testing.T) {
	l := New("first\nsecond line\nthird")
	l.Next()
	tok, _ := l.Next()
	assert.Equal(t, l.GetLineText(tok), "second line")
}

func TestIllegalCharacter(t *testing.T) {
	_, err := New("#").Next()
	assert.NotNil(t, err)
}

func TestIsIdentifierName(t *testing.T) {
	assert.True(t, IsIdentifierName("_foo$1"))
	assert.False(t, IsIdentifierName("1foo"))
	assert.False(t, IsIdentifierName("create-class"))
	assert.False(t, IsIdentifierName(""))
}

func TestUnescape(t *testing.T) {
	s, err := Unescape(`a\tb`)
	assert.Nil(t, err)
	assert.Equal(t, s, "a\tb")
}
