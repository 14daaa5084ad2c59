// Package token defines language keywords and tokens used when lexing source code.
package token

import "fmt"

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// Note: This assumes the advance does not cross line boundaries.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Loc is the source span of a node. Line is 1-based and Column is 0-based,
// which is the convention used by source maps and code frames.
type Loc struct {
	Start LineCol `json:"start"`
	End   LineCol `json:"end"`
}

// LineCol is a 1-based line and 0-based column pair.
type LineCol struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Column)
}

// LocFrom converts a pair of lexer positions into a Loc.
func LocFrom(start, end Position) *Loc {
	return &Loc{
		Start: LineCol{Line: start.LineNumber(), Column: start.Column},
		End:   LineCol{Line: end.LineNumber(), Column: end.Column},
	}
}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position

	// NewlineBefore is set when at least one line break separates this
	// token from the previous one. The parser uses it for statement
	// termination without semicolons.
	NewlineBefore bool
}

// Token types
const (
	AND             Type = "&&"
	ASSIGN          Type = "="
	ASTERISK        Type = "*"
	ASTERISK_EQUALS Type = "*="
	BANG            Type = "!"
	COLON           Type = ":"
	COMMA           Type = ","
	EOF             Type = "EOF"
	EQ              Type = "=="
	GT              Type = ">"
	GT_EQUALS       Type = ">="
	IDENT           Type = "IDENT"
	ILLEGAL         Type = "ILLEGAL"
	LBRACE          Type = "{"
	LBRACKET        Type = "["
	LPAREN          Type = "("
	LT              Type = "<"
	LT_EQUALS       Type = "<="
	MINUS           Type = "-"
	MINUS_EQUALS    Type = "-="
	MINUS_MINUS     Type = "--"
	MOD             Type = "%"
	NOT_EQ          Type = "!="
	OR              Type = "||"
	PERIOD          Type = "."
	PLUS            Type = "+"
	PLUS_EQUALS     Type = "+="
	PLUS_PLUS       Type = "++"
	QUESTION        Type = "?"
	RBRACE          Type = "}"
	RBRACKET        Type = "]"
	RPAREN          Type = ")"
	SEMICOLON       Type = ";"
	SLASH           Type = "/"
	SLASH_EQUALS    Type = "/="
	STRICT_EQ       Type = "==="
	STRICT_NOT_EQ   Type = "!=="
	STRING          Type = "STRING"
	TEMPLATE        Type = "TEMPLATE"
	NUMBER          Type = "NUMBER"
	BREAK           Type = "BREAK"
	CATCH           Type = "CATCH"
	CONST           Type = "CONST"
	CONTINUE        Type = "CONTINUE"
	DELETE          Type = "DELETE"
	ELSE            Type = "ELSE"
	FALSE           Type = "FALSE"
	FINALLY         Type = "FINALLY"
	FOR             Type = "FOR"
	FUNCTION        Type = "FUNCTION"
	IF              Type = "IF"
	IMPORT          Type = "IMPORT"
	IN              Type = "IN"
	INSTANCEOF      Type = "INSTANCEOF"
	LET             Type = "LET"
	NEW             Type = "NEW"
	NULL            Type = "NULL"
	RETURN          Type = "RETURN"
	THIS            Type = "THIS"
	THROW           Type = "THROW"
	TRUE            Type = "TRUE"
	TRY             Type = "TRY"
	TYPEOF          Type = "TYPEOF"
	VAR             Type = "VAR"
	VOID            Type = "VOID"
	BITAND          Type = "&"
	BITOR           Type = "|"
	TILDE           Type = "~"
	CARET           Type = "^"
)

// Reserved keywords
var keywords = map[string]Type{
	"break":      BREAK,
	"catch":      CATCH,
	"const":      CONST,
	"continue":   CONTINUE,
	"delete":     DELETE,
	"else":       ELSE,
	"false":      FALSE,
	"finally":    FINALLY,
	"for":        FOR,
	"function":   FUNCTION,
	"if":         IF,
	"import":     IMPORT,
	"in":         IN,
	"instanceof": INSTANCEOF,
	"let":        LET,
	"new":        NEW,
	"null":       NULL,
	"return":     RETURN,
	"this":       THIS,
	"throw":      THROW,
	"true":       TRUE,
	"try":        TRY,
	"typeof":     TYPEOF,
	"var":        VAR,
	"void":       VOID,
}

// LookupIdentifier used to determinate whether identifier is keyword nor not
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}

// IsKeyword reports whether the given identifier is a reserved word of the
// language subset.
func IsKeyword(identifier string) bool {
	_, ok := keywords[identifier]
	return ok
}

// reservedWords are ES3 reserved words that cannot appear as bare property
// names in member expressions when targeting old engines.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "enum": true, "export": true, "extends": true,
	"false": true, "finally": true, "for": true, "function": true, "if": true,
	"import": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "super": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true,
}

// IsReservedWord reports whether name is a reserved word in ES3 and later.
func IsReservedWord(name string) bool {
	return reservedWords[name]
}
