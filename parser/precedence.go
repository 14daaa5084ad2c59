package parser

import "github.com/deepnoodle-ai/morph/internal/token"

// Precedence order for operators
const (
	_ int = iota
	LOWEST
	ASSIGN      // = += -= *= /=
	TERNARY     // ? :
	OR          // ||
	AND         // &&
	BITOR       // |
	BITXOR      // ^
	BITAND      // &
	EQUALS      // == != === !==
	LESSGREATER // < > <= >= instanceof in
	SUM         // + or -
	PRODUCT     // * / %
	PREFIX      // -X or !X
	POSTFIX     // X++
	CALL        // myFunction(X)
	MEMBER      // a.b a[b] tag`x`
)

// Precedences for each token type
var precedences = map[token.Type]int{
	token.ASSIGN:          ASSIGN,
	token.PLUS_EQUALS:     ASSIGN,
	token.MINUS_EQUALS:    ASSIGN,
	token.ASTERISK_EQUALS: ASSIGN,
	token.SLASH_EQUALS:    ASSIGN,
	token.QUESTION:        TERNARY,
	token.OR:              OR,
	token.AND:             AND,
	token.BITOR:           BITOR,
	token.CARET:           BITXOR,
	token.BITAND:          BITAND,
	token.EQ:              EQUALS,
	token.NOT_EQ:          EQUALS,
	token.STRICT_EQ:       EQUALS,
	token.STRICT_NOT_EQ:   EQUALS,
	token.LT:              LESSGREATER,
	token.LT_EQUALS:       LESSGREATER,
	token.GT:              LESSGREATER,
	token.GT_EQUALS:       LESSGREATER,
	token.INSTANCEOF:      LESSGREATER,
	token.IN:              LESSGREATER,
	token.PLUS:            SUM,
	token.MINUS:           SUM,
	token.ASTERISK:        PRODUCT,
	token.SLASH:           PRODUCT,
	token.MOD:             PRODUCT,
	token.PLUS_PLUS:       POSTFIX,
	token.MINUS_MINUS:     POSTFIX,
	token.LPAREN:          CALL,
	token.PERIOD:          MEMBER,
	token.LBRACKET:        MEMBER,
	token.TEMPLATE:        MEMBER,
}
