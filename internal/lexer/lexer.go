// Package lexer converts source text into a stream of tokens.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deepnoodle-ai/morph/internal/token"
)

// Comment is a line or block comment encountered while lexing.
type Comment struct {
	Block bool
	Value string
	Start token.Position
	End   token.Position
}

// Lexer holds the state for scanning one input string.
type Lexer struct {
	input    string
	file     string
	pos      int // current byte offset
	line     int // 0-indexed line
	lineHead int // byte offset of the current line start

	// comments collected since the last call to TakeComments
	comments []Comment
	// every comment seen, in order
	allComments []Comment

	sawNewline bool
}

// State is a snapshot of the lexer that can be restored later.
type State struct {
	pos        int
	line       int
	lineHead   int
	comments   int
	all        int
	sawNewline bool
}

// New returns a Lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{input: input}
}

// SetFilename sets the filename recorded in token positions.
func (l *Lexer) SetFilename(file string) {
	l.file = file
}

// Filename returns the filename recorded in token positions.
func (l *Lexer) Filename() string {
	return l.file
}

// SaveState captures the current lexer position.
func (l *Lexer) SaveState() State {
	return State{
		pos:        l.pos,
		line:       l.line,
		lineHead:   l.lineHead,
		comments:   len(l.comments),
		all:        len(l.allComments),
		sawNewline: l.sawNewline,
	}
}

// RestoreState rewinds the lexer to a previously saved state.
func (l *Lexer) RestoreState(s State) {
	l.pos = s.pos
	l.line = s.line
	l.lineHead = s.lineHead
	l.comments = l.comments[:s.comments]
	l.allComments = l.allComments[:s.all]
	l.sawNewline = s.sawNewline
}

// TakeComments returns the comments seen since the previous call and
// clears the pending list.
func (l *Lexer) TakeComments() []Comment {
	c := l.comments
	l.comments = nil
	return c
}

// Comments returns every comment seen so far.
func (l *Lexer) Comments() []Comment {
	return l.allComments
}

// GetLineText returns the full source line on which the token starts.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start > len(l.input) {
		return ""
	}
	end := strings.IndexByte(l.input[start:], '\n')
	if end < 0 {
		return l.input[start:]
	}
	return strings.TrimSuffix(l.input[start:start+end], "\r")
}

func (l *Lexer) position() token.Position {
	return token.Position{
		Char:      l.pos,
		LineStart: l.lineHead,
		Line:      l.line,
		Column:    l.pos - l.lineHead,
		File:      l.file,
	}
}

func (l *Lexer) peekByte(offset int) byte {
	if l.pos+offset >= len(l.input) {
		return 0
	}
	return l.input[l.pos+offset]
}

func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.input); i++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.lineHead = l.pos + 1
			l.sawNewline = true
		}
		l.pos++
	}
}

// Next returns the next token from the input. At the end of input an EOF
// token is returned; calling Next again keeps returning EOF.
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		pos := l.position()
		return token.Token{Type: token.ILLEGAL, StartPosition: pos, EndPosition: pos}, err
	}
	newline := l.sawNewline
	l.sawNewline = false

	start := l.position()
	if l.pos >= len(l.input) {
		return token.Token{Type: token.EOF, StartPosition: start, EndPosition: start, NewlineBefore: newline}, nil
	}

	tok, err := l.scan(start)
	tok.NewlineBefore = newline
	return tok, err
}

func (l *Lexer) scan(start token.Position) (token.Token, error) {
	ch := l.input[l.pos]
	switch {
	case isIdentStart(rune(ch)) || ch >= utf8.RuneSelf:
		return l.readIdentifier(start)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekByte(1))):
		return l.readNumber(start)
	case ch == '"' || ch == '\'':
		return l.readString(start, ch)
	case ch == '`':
		return l.readTemplate(start)
	}

	for _, op := range operators {
		if strings.HasPrefix(l.input[l.pos:], op.text) {
			l.advance(len(op.text))
			return l.makeToken(op.typ, op.text, start), nil
		}
	}

	l.advance(1)
	tok := l.makeToken(token.ILLEGAL, string(ch), start)
	return tok, fmt.Errorf("unexpected character %q", ch)
}

// operators are ordered so that longer operators match first.
var operators = []struct {
	text string
	typ  token.Type
}{
	{"===", token.STRICT_EQ},
	{"!==", token.STRICT_NOT_EQ},
	{"==", token.EQ},
	{"!=", token.NOT_EQ},
	{"<=", token.LT_EQUALS},
	{">=", token.GT_EQUALS},
	{"&&", token.AND},
	{"||", token.OR},
	{"++", token.PLUS_PLUS},
	{"--", token.MINUS_MINUS},
	{"+=", token.PLUS_EQUALS},
	{"-=", token.MINUS_EQUALS},
	{"*=", token.ASTERISK_EQUALS},
	{"/=", token.SLASH_EQUALS},
	{"=", token.ASSIGN},
	{"!", token.BANG},
	{"<", token.LT},
	{">", token.GT},
	{"+", token.PLUS},
	{"-", token.MINUS},
	{"*", token.ASTERISK},
	{"/", token.SLASH},
	{"%", token.MOD},
	{"&", token.BITAND},
	{"|", token.BITOR},
	{"^", token.CARET},
	{"~", token.TILDE},
	{"?", token.QUESTION},
	{":", token.COLON},
	{";", token.SEMICOLON},
	{",", token.COMMA},
	{".", token.PERIOD},
	{"(", token.LPAREN},
	{")", token.RPAREN},
	{"{", token.LBRACE},
	{"}", token.RBRACE},
	{"[", token.LBRACKET},
	{"]", token.RBRACKET},
}

func (l *Lexer) makeToken(typ token.Type, literal string, start token.Position) token.Token {
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.position(),
	}
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for l.pos < len(l.input) {
		ch := l.input[l.pos]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' || ch == '\v':
			l.advance(1)
		case ch == '/' && l.peekByte(1) == '/':
			start := l.position()
			end := strings.IndexByte(l.input[l.pos:], '\n')
			if end < 0 {
				end = len(l.input) - l.pos
			}
			value := strings.TrimSuffix(l.input[l.pos+2:l.pos+end], "\r")
			l.advance(end)
			l.addComment(Comment{Value: value, Start: start, End: l.position()})
		case ch == '/' && l.peekByte(1) == '*':
			start := l.position()
			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				l.advance(len(l.input) - l.pos)
				return fmt.Errorf("unterminated comment")
			}
			value := l.input[l.pos+2 : l.pos+2+end]
			l.advance(end + 4)
			l.addComment(Comment{Block: true, Value: value, Start: start, End: l.position()})
		default:
			return nil
		}
	}
	return nil
}

func (l *Lexer) addComment(c Comment) {
	l.comments = append(l.comments, c)
	l.allComments = append(l.allComments, c)
}

func (l *Lexer) readIdentifier(start token.Position) (token.Token, error) {
	begin := l.pos
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !isIdentPart(r) {
			break
		}
		l.advance(size)
	}
	if l.pos == begin {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		l.advance(size)
		return l.makeToken(token.ILLEGAL, string(r), start), fmt.Errorf("unexpected character %q", r)
	}
	literal := l.input[begin:l.pos]
	return l.makeToken(token.LookupIdentifier(literal), literal, start), nil
}

func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	begin := l.pos
	if l.input[l.pos] == '0' && (l.peekByte(1) == 'x' || l.peekByte(1) == 'X') {
		l.advance(2)
		for l.pos < len(l.input) && isHexDigit(l.input[l.pos]) {
			l.advance(1)
		}
		return l.makeToken(token.NUMBER, l.input[begin:l.pos], start), nil
	}
	for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
		l.advance(1)
	}
	if l.peekByte(0) == '.' {
		l.advance(1)
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.advance(1)
		}
	}
	if c := l.peekByte(0); c == 'e' || c == 'E' {
		l.advance(1)
		if c := l.peekByte(0); c == '+' || c == '-' {
			l.advance(1)
		}
		if !isDigit(l.peekByte(0)) {
			return l.makeToken(token.ILLEGAL, l.input[begin:l.pos], start), fmt.Errorf("invalid number literal %q", l.input[begin:l.pos])
		}
		for l.pos < len(l.input) && isDigit(l.input[l.pos]) {
			l.advance(1)
		}
	}
	if l.pos < len(l.input) && isIdentStart(rune(l.input[l.pos])) {
		l.advance(1)
		return l.makeToken(token.ILLEGAL, l.input[begin:l.pos], start), fmt.Errorf("invalid number literal %q", l.input[begin:l.pos])
	}
	return l.makeToken(token.NUMBER, l.input[begin:l.pos], start), nil
}

func (l *Lexer) readString(start token.Position, quote byte) (token.Token, error) {
	l.advance(1)
	var b strings.Builder
	for {
		if l.pos >= len(l.input) {
			return l.makeToken(token.ILLEGAL, b.String(), start), fmt.Errorf("unterminated string literal")
		}
		ch := l.input[l.pos]
		if ch == '\n' {
			return l.makeToken(token.ILLEGAL, b.String(), start), fmt.Errorf("unterminated string literal")
		}
		if ch == quote {
			l.advance(1)
			break
		}
		if ch == '\\' {
			decoded, n, err := decodeEscape(l.input[l.pos:])
			if err != nil {
				l.advance(n)
				return l.makeToken(token.ILLEGAL, b.String(), start), err
			}
			b.WriteString(decoded)
			l.advance(n)
			continue
		}
		b.WriteByte(ch)
		l.advance(1)
	}
	return l.makeToken(token.STRING, b.String(), start), nil
}

// readTemplate reads a template literal. The token literal is the raw text
// between the backticks, including any ${...} substitutions, which the
// parser splits into quasis and expressions.
func (l *Lexer) readTemplate(start token.Position) (token.Token, error) {
	l.advance(1)
	begin := l.pos
	depth := 0
	for {
		if l.pos >= len(l.input) {
			return l.makeToken(token.ILLEGAL, l.input[begin:], start), fmt.Errorf("unterminated template literal")
		}
		ch := l.input[l.pos]
		switch {
		case ch == '\\':
			l.advance(2)
			continue
		case depth == 0 && ch == '`':
			literal := l.input[begin:l.pos]
			l.advance(1)
			return l.makeToken(token.TEMPLATE, literal, start), nil
		case ch == '$' && l.peekByte(1) == '{':
			depth++
			l.advance(2)
			continue
		case depth > 0 && ch == '{':
			depth++
		case depth > 0 && ch == '}':
			depth--
		case depth > 0 && (ch == '"' || ch == '\''):
			if _, err := l.readString(l.position(), ch); err != nil {
				return l.makeToken(token.ILLEGAL, l.input[begin:l.pos], start), err
			}
			continue
		case depth > 0 && ch == '`':
			if _, err := l.readTemplate(l.position()); err != nil {
				return l.makeToken(token.ILLEGAL, l.input[begin:l.pos], start), err
			}
			continue
		}
		l.advance(1)
	}
}

// decodeEscape decodes the escape sequence at the start of s, returning the
// decoded text and the number of bytes consumed.
func decodeEscape(s string) (string, int, error) {
	if len(s) < 2 {
		return "", len(s), fmt.Errorf("invalid escape sequence")
	}
	switch s[1] {
	case 'n':
		return "\n", 2, nil
	case 't':
		return "\t", 2, nil
	case 'r':
		return "\r", 2, nil
	case 'b':
		return "\b", 2, nil
	case 'f':
		return "\f", 2, nil
	case 'v':
		return "\v", 2, nil
	case '0':
		return "\x00", 2, nil
	case '\n':
		return "", 2, nil
	case 'x':
		if len(s) < 4 || !isHexDigit(s[2]) || !isHexDigit(s[3]) {
			return "", 2, fmt.Errorf("invalid escape sequence")
		}
		return string(rune(hexValue(s[2:4]))), 4, nil
	case 'u':
		if len(s) >= 3 && s[2] == '{' {
			end := strings.IndexByte(s, '}')
			if end < 0 {
				return "", 2, fmt.Errorf("invalid escape sequence")
			}
			return string(rune(hexValue(s[3:end]))), end + 1, nil
		}
		if len(s) < 6 {
			return "", 2, fmt.Errorf("invalid escape sequence")
		}
		for i := 2; i < 6; i++ {
			if !isHexDigit(s[i]) {
				return "", 2, fmt.Errorf("invalid escape sequence")
			}
		}
		return string(rune(hexValue(s[2:6]))), 6, nil
	}
	r, size := utf8.DecodeRuneInString(s[1:])
	return string(r), 1 + size, nil
}

// Unescape decodes all escape sequences in raw template text.
func Unescape(raw string) (string, error) {
	if !strings.Contains(raw, "\\") {
		return raw, nil
	}
	var b strings.Builder
	for i := 0; i < len(raw); {
		if raw[i] != '\\' {
			b.WriteByte(raw[i])
			i++
			continue
		}
		decoded, n, err := decodeEscape(raw[i:])
		if err != nil {
			return "", err
		}
		b.WriteString(decoded)
		i += n
	}
	return b.String(), nil
}

func hexValue(s string) int {
	v := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			v = v*16 + int(c-'0')
		case c >= 'a' && c <= 'f':
			v = v*16 + int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			v = v*16 + int(c-'A') + 10
		}
	}
	return v
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// IsIdentifierName reports whether s is a valid identifier name.
func IsIdentifierName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}
