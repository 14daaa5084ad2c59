package errors

// ErrorCode represents a unique identifier for error types.
// Codes are organized by category:
//   - E1xxx: Parse errors
//   - E2xxx: Transform errors
//   - E3xxx: Output errors
type ErrorCode string

const (
	// Parse errors (E1xxx)
	E1001 ErrorCode = "E1001" // Unexpected token
	E1002 ErrorCode = "E1002" // Unterminated string literal
	E1003 ErrorCode = "E1003" // Invalid syntax
	E1004 ErrorCode = "E1004" // Missing expression
	E1005 ErrorCode = "E1005" // Invalid assignment target
	E1006 ErrorCode = "E1006" // Expected identifier
	E1007 ErrorCode = "E1007" // Unclosed delimiter
	E1008 ErrorCode = "E1008" // Invalid number literal
	E1009 ErrorCode = "E1009" // Maximum nesting depth exceeded
	E1010 ErrorCode = "E1010" // Invalid escape sequence

	// Transform errors (E2xxx)
	E2001 ErrorCode = "E2001" // Unknown helper
	E2002 ErrorCode = "E2002" // Unknown module formatter
	E2003 ErrorCode = "E2003" // Unknown plugin
	E2004 ErrorCode = "E2004" // Duplicate plugin
	E2005 ErrorCode = "E2005" // Unsupported plugin version
	E2006 ErrorCode = "E2006" // Invalid plugin position
	E2007 ErrorCode = "E2007" // Transform aborted
	E2008 ErrorCode = "E2008" // Node error
	E2009 ErrorCode = "E2009" // Invalid plugin condition

	// Output errors (E3xxx)
	E3001 ErrorCode = "E3001" // Invalid source map
	E3002 ErrorCode = "E3002" // Code generation failed
)

// codeDescriptions maps error codes to their short descriptions.
var codeDescriptions = map[ErrorCode]string{
	E1001: "unexpected token",
	E1002: "unterminated string literal",
	E1003: "invalid syntax",
	E1004: "missing expression",
	E1005: "invalid assignment target",
	E1006: "expected identifier",
	E1007: "unclosed delimiter",
	E1008: "invalid number literal",
	E1009: "maximum nesting depth exceeded",
	E1010: "invalid escape sequence",

	E2001: "unknown helper",
	E2002: "unknown module formatter",
	E2003: "unknown plugin",
	E2004: "duplicate plugin",
	E2005: "unsupported plugin version",
	E2006: "invalid plugin position",
	E2007: "transform aborted",
	E2008: "node error",
	E2009: "invalid plugin condition",

	E3001: "invalid source map",
	E3002: "code generation failed",
}

// Description returns the short description for an error code.
func (c ErrorCode) Description() string {
	if desc, ok := codeDescriptions[c]; ok {
		return desc
	}
	return "unknown error"
}

// String returns the error code as a string.
func (c ErrorCode) String() string {
	return string(c)
}

// Category returns the error category based on the code prefix.
func (c ErrorCode) Category() string {
	if len(c) < 2 {
		return "unknown"
	}
	switch c[1] {
	case '1':
		return "parse"
	case '2':
		return "transform"
	case '3':
		return "output"
	default:
		return "unknown"
	}
}

// Kind returns the label used in formatted output, e.g. "parse error".
func (c ErrorCode) Kind() string {
	switch c.Category() {
	case "parse":
		return "syntax error"
	case "transform":
		return "transform error"
	case "output":
		return "output error"
	}
	return "error"
}
